package service

import (
	"context"
	"fmt"

	"github.com/listenupapp/librarian/internal/search"
)

// FullTextSearch ranks the catalog against params using a throwaway in-memory index.
func (l *Library) FullTextSearch(ctx context.Context, params search.Params) (*search.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := search.New(l.books, l.logger)
	if err != nil {
		return nil, fmt.Errorf("build search index: %w", err)
	}
	defer index.Close()

	return index.Search(ctx, params)
}
