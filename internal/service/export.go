package service

import (
	"context"

	"github.com/listenupapp/librarian/internal/catalog"
	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/export"
)

// Export writes the books in keys to path, or the whole catalog when keys is empty.
func (l *Library) Export(ctx context.Context, path string, format export.Format, keys domain.KeySet) (*export.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books := l.books
	if keys.Len() > 0 {
		books = catalog.Select(l.books, keys)
	}

	res, err := export.ExportFile(ctx, path, format, books)
	if err != nil {
		return nil, err
	}

	l.logger.Info("catalog exported",
		"path", res.Path,
		"format", res.Format,
		"books", res.Books,
		"size", res.Size,
	)
	return res, nil
}
