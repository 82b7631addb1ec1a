// Package store opens the book repository for the configured database driver.
package store

import (
	"context"
	"fmt"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/platform/database"
)

// BookRepository is a book.Repository that can also report readiness.
type BookRepository interface {
	book.Repository
	Ping(ctx context.Context) error
}

// Store owns the database handle behind Books for the life of the process.
type Store struct {
	Books BookRepository
	close func()
}

// Open connects to the database selected by cfg.DBDriver and makes sure
// the schema exists.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return &Store{
			Books: book.NewPostgresRepo(pool, cfg.DBTimeout),
			close: pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return &Store{
			Books: book.NewSQLiteRepo(db, cfg.DBTimeout),
			close: func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Close releases the underlying pool or database handle.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}
