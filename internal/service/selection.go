package service

import (
	"github.com/listenupapp/librarian/internal/catalog"
	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
)

// Selection names the books a bulk operation applies to.
type Selection struct {
	All  bool
	IDs  []string
	Keys []domain.Key
}

// IsEmpty reports whether nothing was selected.
func (s Selection) IsEmpty() bool {
	return !s.All && len(s.IDs) == 0 && len(s.Keys) == 0
}

// Resolve turns a selection into the identity tuples of existing books.
// It fails with NOT_FOUND when nothing in the catalog matches.
func (l *Library) Resolve(sel Selection) (domain.KeySet, error) {
	if sel.IsEmpty() {
		return nil, errors.Validation("no books selected")
	}

	keys := domain.NewKeySet()
	if sel.All {
		for _, b := range l.books {
			keys.Add(b.Key())
		}
	}
	for k := range catalog.KeysForIDs(l.books, sel.IDs) {
		keys.Add(k)
	}
	for _, k := range sel.Keys {
		if catalog.Find(l.books, k) != nil {
			keys.Add(k)
		}
	}

	if keys.Len() == 0 {
		return nil, errors.NotFound("no books match the selection")
	}
	return keys, nil
}
