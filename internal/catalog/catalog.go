// Package catalog implements the query and transform operations over a book collection.
//
// Functions never reorder or resize the slice they are given. Tag operations
// mutate matching books in place and leave persistence to the caller.
package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/listenupapp/librarian/internal/domain"
)

// AllTags is the tag filter value that matches every book.
const AllTags = "All"

// fold returns s case-folded for caseless comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Search returns the books whose title or author contains keyword, ignoring case.
// An empty keyword matches every book.
func Search(books []*domain.Book, keyword string) []*domain.Book {
	if keyword == "" {
		return slices.Clone(books)
	}

	needle := fold(keyword)
	out := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(fold(b.Title), needle) || strings.Contains(fold(b.Author), needle) {
			out = append(out, b)
		}
	}
	return out
}

// FilterByTag returns the books carrying tag. AllTags returns a copy of books.
func FilterByTag(books []*domain.Book, tag string) []*domain.Book {
	if tag == AllTags {
		return slices.Clone(books)
	}

	out := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if b.HasTag(tag) {
			out = append(out, b)
		}
	}
	return out
}

// Tags returns the sorted set of tags used across books.
func Tags(books []*domain.Book) []string {
	seen := make(map[string]struct{})
	for _, b := range books {
		for _, t := range b.Tags {
			seen[t] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// AddTag adds tag to every book whose key is in keys.
// Returns the number of books that changed.
func AddTag(books []*domain.Book, keys domain.KeySet, tag string) int {
	if tag == "" {
		return 0
	}

	changed := 0
	for _, b := range books {
		if keys.Has(b.Key()) && b.AddTag(tag) {
			changed++
		}
	}
	return changed
}

// RemoveTag removes tag from every book whose key is in keys.
// Returns the number of books that changed.
func RemoveTag(books []*domain.Book, keys domain.KeySet, tag string) int {
	if tag == "" {
		return 0
	}

	changed := 0
	for _, b := range books {
		if keys.Has(b.Key()) && b.RemoveTag(tag) {
			changed++
		}
	}
	return changed
}

// Delete returns books without any book whose key is in keys.
// Every duplicate of a matching key is removed.
func Delete(books []*domain.Book, keys domain.KeySet) []*domain.Book {
	out := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if !keys.Has(b.Key()) {
			out = append(out, b)
		}
	}
	return out
}

// Select returns the books whose key is in keys, in collection order.
func Select(books []*domain.Book, keys domain.KeySet) []*domain.Book {
	out := make([]*domain.Book, 0, keys.Len())
	for _, b := range books {
		if keys.Has(b.Key()) {
			out = append(out, b)
		}
	}
	return out
}

// Find returns the first book with key, or nil.
func Find(books []*domain.Book, key domain.Key) *domain.Book {
	for _, b := range books {
		if b.Key() == key {
			return b
		}
	}
	return nil
}

// KeysForIDs returns the identity tuples of the books whose ID is in ids.
// Books without an ID never match.
func KeysForIDs(books []*domain.Book, ids []string) domain.KeySet {
	keys := domain.NewKeySet()
	for _, b := range books {
		if b.ID != "" && slices.Contains(ids, b.ID) {
			keys.Add(b.Key())
		}
	}
	return keys
}
