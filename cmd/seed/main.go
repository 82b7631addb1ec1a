package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	count := flag.Int("count", 100, "number of books to insert")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "book-seed").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	db, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	svc := book.NewService(db.Books)

	logger.Info().Int("count", *count).Msg("generating books")
	for i := 0; i < *count; i++ {
		if _, err := svc.Create(ctx, sampleInput(i)); err != nil {
			logger.Fatal().Err(err).Int("index", i).Msg("failed to insert book")
		}
		if (i+1)%100 == 0 {
			logger.Info().Msgf("inserted %d/%d books", i+1, *count)
		}
	}

	books, err := svc.List(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to count books")
	}
	logger.Info().Int("total", len(books)).Msg("total books in database")
}

var (
	genres  = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	authors = []string{"A. Writer", "B. Novelist", "C. Historian", "D. Scientist", "E. Poet", "F. Critic"}
	words   = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
)

func sampleInput(i int) book.Input {
	year := 1950 + rand.Intn(75)
	desc := fmt.Sprintf("This is a book about %s.", words[rand.Intn(len(words))])
	return book.Input{
		Title:         fmt.Sprintf("Book Title %d - %s", i+1, words[rand.Intn(len(words))]),
		Author:        authors[rand.Intn(len(authors))],
		Genre:         genres[rand.Intn(len(genres))],
		PublishedYear: &year,
		Description:   &desc,
	}
}
