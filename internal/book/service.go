package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new book and returns it with its assigned ID.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	return s.repo.Create(ctx, in)
}

// Get returns a book by its ID.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// List returns every book in insertion order. The result is never nil.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Update replaces every non-identity field of the book with the given ID.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Book, error) {
	return s.repo.Update(ctx, id, in)
}

// Delete removes the book with the given ID and returns it as it was.
func (s *Service) Delete(ctx context.Context, id int64) (Book, error) {
	return s.repo.Delete(ctx, id)
}
