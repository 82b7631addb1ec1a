package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, in Input) (Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context) ([]Book, error)
	Update(ctx context.Context, id int64, in Input) (Book, error)
	Delete(ctx context.Context, id int64) (Book, error)
}
