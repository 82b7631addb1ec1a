package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectBookSQL = `SELECT id, title, author, genre, published_year, description FROM books`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// withConn runs fn on a connection acquired for this call only. The
// connection goes back to the pool however fn returns.
func (r *PostgresRepo) withConn(ctx context.Context, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	conn, err := r.db.Acquire(timeoutCtx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(timeoutCtx, conn)
}

func scanPGBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.PublishedYear, &b.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// Ping reports whether the database is reachable.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepo) Create(ctx context.Context, in Input) (Book, error) {
	const query = `
		INSERT INTO books (title, author, genre, published_year, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, author, genre, published_year, description`

	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		b, err := scanPGBook(conn.QueryRow(ctx, query,
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

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		b, err := scanPGBook(conn.QueryRow(ctx, selectBookSQL+" WHERE id = $1", id))
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	out := []Book{}
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, selectBookSQL+" ORDER BY id ASC")
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanPGBook(rows)
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

func (r *PostgresRepo) Update(ctx context.Context, id int64, in Input) (Book, error) {
	const updateSQL = `
		UPDATE books SET
			title = $2,
			author = $3,
			genre = $4,
			published_year = $5,
			description = $6
		WHERE id = $1`

	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		b, err := scanPGBook(tx.QueryRow(ctx, selectBookSQL+" WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			return err
		}
		b.Apply(in)

		_, err = tx.Exec(ctx, updateSQL, b.ID, b.Title, b.Author, b.Genre, b.PublishedYear, b.Description)
		if err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		out = b
		return tx.Commit(ctx)
	})
	return out, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (Book, error) {
	const query = `
		DELETE FROM books
		WHERE id = $1
		RETURNING id, title, author, genre, published_year, description`

	var out Book
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		b, err := scanPGBook(conn.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}
