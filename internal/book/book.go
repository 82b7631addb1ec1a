package book

import (
	"errors"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a stored book record.
type Book struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	PublishedYear *int    `json:"published_year"`
	Description   *string `json:"description"`
}

// Input carries the client-supplied fields of a book, used for both create and update.
// It never carries the identity.
type Input struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	PublishedYear *int    `json:"published_year"`
	Description   *string `json:"description"`
}

// Apply overwrites every updatable field of b with the values in in.
// Fields absent from in end up at their zero value; nothing from the
// previous version survives.
func (b *Book) Apply(in Input) {
	b.Title = in.Title
	b.Author = in.Author
	b.Genre = in.Genre
	b.PublishedYear = in.PublishedYear
	b.Description = in.Description
}

// New builds an unsaved book from in.
func New(in Input) Book {
	var b Book
	b.Apply(in)
	return b
}
