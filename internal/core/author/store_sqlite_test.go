// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/sqlite"
)

/*
TestSQLiteRepository_NestedBooksAndCascade tests atomic nested creation and cascading delete.
*/
func TestSQLiteRepository_NestedBooksAndCascade(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "libris.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	authors := author.NewSQLiteRepository(db)
	books := book.NewSQLiteRepository(db)

	tolkien := &author.Author{Name: "J.R.R. Tolkien"}
	nested := []*book.Book{{Title: "The Hobbit", PublishedYear: 1937}, {Title: "The Silmarillion"}}
	require.NoError(t, authors.CreateAuthor(ctx, tolkien, nested))
	assert.NotZero(t, tolkien.ID)
	assert.Equal(t, tolkien.ID, nested[1].AuthorID)

	owned, err := books.ListBooksByAuthor(ctx, tolkien.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	t.Run("failed_nested_book_rolls_back_author", func(t *testing.T) {
		invalid := []*book.Book{{Title: "Fine"}, {Title: ""}}

		all, err := authors.ListAllAuthors(ctx)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, `CREATE TRIGGER reject_untitled BEFORE INSERT ON book WHEN NEW.title = '' BEGIN SELECT RAISE(ABORT, 'empty title'); END`)
		require.NoError(t, err)
		defer func() { _, _ = db.ExecContext(ctx, `DROP TRIGGER reject_untitled`) }()

		assert.Error(t, authors.CreateAuthor(ctx, &author.Author{Name: "Rolled Back"}, invalid))

		after, err := authors.ListAllAuthors(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(all))
	})

	t.Run("update", func(t *testing.T) {
		tolkien.Name = "John Ronald Reuel Tolkien"
		require.NoError(t, authors.UpdateAuthor(ctx, tolkien))

		got, err := authors.GetAuthor(ctx, tolkien.ID)
		require.NoError(t, err)
		assert.Equal(t, "John Ronald Reuel Tolkien", got.Name)

		assert.True(t, apperr.IsNotFound(authors.UpdateAuthor(ctx, &author.Author{ID: 999, Name: "Ghost"})))
	})

	t.Run("delete_cascades", func(t *testing.T) {
		require.NoError(t, authors.DeleteAuthor(ctx, tolkien.ID))

		_, err := authors.GetAuthor(ctx, tolkien.ID)
		assert.True(t, apperr.IsNotFound(err))

		remaining, err := books.ListBooksByAuthor(ctx, tolkien.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}
