package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository runs the behaviour every Repository implementation must
// share. newRepo must return a repository over an empty books table.
func testRepository(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create assigns a fresh id", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Create(ctx, Input{Title: "A", Author: "B"})
		require.NoError(t, err)
		assert.NotZero(t, first.ID)
		assert.Equal(t, "A", first.Title)
		assert.Equal(t, "B", first.Author)
		assert.Equal(t, "", first.Genre)
		assert.Nil(t, first.PublishedYear)
		assert.Nil(t, first.Description)

		second, err := repo.Create(ctx, Input{Title: "A", Author: "B"})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("get after create returns same values", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, Input{
			Title:         "Dune",
			Author:        "Frank Herbert",
			Genre:         "Science Fiction",
			PublishedYear: intPtr(1965),
			Description:   strPtr("Desert planet"),
		})
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("get unknown id is not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Get(ctx, 999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update replaces every field", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, Input{
			Title:         "Old",
			Author:        "Someone",
			Genre:         "History",
			PublishedYear: intPtr(1900),
			Description:   strPtr("old description"),
		})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, Input{Title: "New", Author: "Other"})
		require.NoError(t, err)
		want := Book{ID: created.ID, Title: "New", Author: "Other"}
		assert.Equal(t, want, updated)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("update unknown id is not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Update(ctx, 999999, Input{Title: "X", Author: "Y"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete returns prior record", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, Input{Title: "Gone", Author: "Soon", Genre: "Mystery"})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, deleted)

		_, err = repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Create(ctx, Input{Title: "1", Author: "a"})
		require.NoError(t, err)
		_, err = repo.Delete(ctx, first.ID)
		require.NoError(t, err)

		second, err := repo.Create(ctx, Input{Title: "2", Author: "b"})
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("list returns creation order", func(t *testing.T) {
		repo := newRepo(t)

		empty, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		var want []Book
		for _, title := range []string{"R1", "R2", "R3"} {
			b, err := repo.Create(ctx, Input{Title: title, Author: "x"})
			require.NoError(t, err)
			want = append(want, b)
		}

		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
