package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteRepo stores books in a SQLite database opened with the modernc driver.
type SQLiteRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sql.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) withConn(ctx context.Context, fn func(ctx context.Context, conn *sql.Conn) error) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	conn, err := r.db.Conn(timeoutCtx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(timeoutCtx, conn)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLBook(row rowScanner) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.PublishedYear, &b.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepo) Create(ctx context.Context, in Input) (Book, error) {
	const query = `
		INSERT INTO books (title, author, genre, published_year, description)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, title, author, genre, published_year, description`

	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		b, err := scanSQLBook(conn.QueryRowContext(ctx, query,
			in.Title, in.Author, in.Genre, in.PublishedYear, in.Description,
		))
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		out = b
		return nil
	})
	return out, err
}

func (r *SQLiteRepo) Get(ctx context.Context, id int64) (Book, error) {
	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		b, err := scanSQLBook(conn.QueryRowContext(ctx, selectBookSQL+" WHERE id = ?", id))
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Book, error) {
	out := []Book{}
	err := r.withConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, selectBookSQL+" ORDER BY id ASC")
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanSQLBook(rows)
			if err != nil {
				return err
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, id int64, in Input) (Book, error) {
	const updateSQL = `
		UPDATE books SET
			title = ?,
			author = ?,
			genre = ?,
			published_year = ?,
			description = ?
		WHERE id = ?`

	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		b, err := scanSQLBook(tx.QueryRowContext(ctx, selectBookSQL+" WHERE id = ?", id))
		if err != nil {
			return err
		}
		b.Apply(in)

		_, err = tx.ExecContext(ctx, updateSQL, b.Title, b.Author, b.Genre, b.PublishedYear, b.Description, b.ID)
		if err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		out = b
		return tx.Commit()
	})
	return out, err
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) (Book, error) {
	const query = `
		DELETE FROM books
		WHERE id = ?
		RETURNING id, title, author, genre, published_year, description`

	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		b, err := scanSQLBook(conn.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}
