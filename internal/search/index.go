package search

import (
	"fmt"
	"log/slog"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/librarian/internal/domain"
)

// batchSize bounds the documents committed per Bleve batch.
const batchSize = 500

// Index is an in-memory full-text index over a book collection.
type Index struct {
	index  bleve.Index
	books  []*domain.Book
	logger *slog.Logger
}

// New builds an index over books. Hits refer back to books by position, so the
// slice must not be reordered while the index is in use.
func New(books []*domain.Book, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("build mapping: %w", err)
	}

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	idx := &Index{index: index, books: books, logger: logger}
	if err := idx.indexBooks(); err != nil {
		_ = index.Close()
		return nil, err
	}

	logger.Debug("search index built", "books", len(books))
	return idx, nil
}

func (i *Index) indexBooks() error {
	for start := 0; start < len(i.books); start += batchSize {
		end := min(start+batchSize, len(i.books))

		batch := i.index.NewBatch()
		for pos := start; pos < end; pos++ {
			doc := BookToDocument(pos, i.books[pos])
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// DocumentCount returns the number of indexed books.
func (i *Index) DocumentCount() (uint64, error) {
	return i.index.DocCount()
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}
