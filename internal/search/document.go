// Package search provides full-text search over the catalog using Bleve.
// The index lives in memory and is rebuilt from the catalog on each run.
package search

import (
	"strconv"

	"github.com/listenupapp/librarian/internal/catalog"
	"github.com/listenupapp/librarian/internal/domain"
)

// Document is the indexed form of one book.
//
// Books written before surrogate keys existed have no ID and identity tuples can
// repeat, so documents are keyed by the book's position in the collection.
type Document struct {
	ID     string
	Key    string
	Title  string
	Author string
	Genre  string
	Tags   []string
	Year   int
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"key":    d.Key,
		"title":  d.Title,
		"author": d.Author,
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	return m
}

// BookToDocument converts the book at position pos to a Document.
func BookToDocument(pos int, b *domain.Book) *Document {
	return &Document{
		ID:     strconv.Itoa(pos),
		Key:    b.Key().String(),
		Title:  b.Title,
		Author: b.Author,
		Genre:  b.Genre,
		Tags:   b.Tags,
		Year:   catalog.YearKey(b.Year),
	}
}
