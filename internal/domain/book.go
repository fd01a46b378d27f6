// Package domain contains the core entities of the book catalog.
package domain

import (
	"slices"
	"strings"
)

// Book is one catalog record.
// Field order matches the persisted JSON layout: title, author, year, genre, tags, cover.
type Book struct {
	Title  string   `json:"title" jsonschema:"description=Book title"`
	Author string   `json:"author" jsonschema:"description=Author name"`
	Year   string   `json:"year" jsonschema:"description=Publication year as text; non-numeric years sort as 0"`
	Genre  string   `json:"genre" jsonschema:"description=Optional genre"`
	Tags   []string `json:"tags" jsonschema:"description=Ordered distinct tags"`
	Cover  *string  `json:"cover" jsonschema:"description=Path to a copied cover image or null"`
	// ID is absent on records written before surrogate keys existed.
	ID string `json:"id,omitempty" jsonschema:"description=Generated surrogate key"`
}

// Key returns the identity tuple used to match this book in bulk operations.
func (b *Book) Key() Key {
	return Key{Title: b.Title, Author: b.Author, Year: b.Year, Genre: b.Genre}
}

// Clone returns a deep copy.
func (b *Book) Clone() *Book {
	c := *b
	c.Tags = slices.Clone(b.Tags)
	if b.Cover != nil {
		cover := *b.Cover
		c.Cover = &cover
	}
	return &c
}

// HasTag reports whether the book carries tag (exact, case-sensitive).
func (b *Book) HasTag(tag string) bool {
	return slices.Contains(b.Tags, tag)
}

// AddTag appends tag unless already present. Returns true if the book changed.
func (b *Book) AddTag(tag string) bool {
	if b.HasTag(tag) {
		return false
	}
	b.Tags = append(b.Tags, tag)
	return true
}

// RemoveTag removes the first occurrence of tag. Returns true if the book changed.
func (b *Book) RemoveTag(tag string) bool {
	i := slices.Index(b.Tags, tag)
	if i < 0 {
		return false
	}
	b.Tags = slices.Delete(b.Tags, i, i+1)
	return true
}

// CoverPath returns the cover path or "" when the book has none.
func (b *Book) CoverPath() string {
	if b.Cover == nil {
		return ""
	}
	return *b.Cover
}

// NewBookInput carries the user-entered fields of a book to be added.
type NewBookInput struct {
	Title  string   `json:"title" validate:"required"`
	Author string   `json:"author" validate:"required"`
	Year   string   `json:"year" validate:"required"`
	Genre  string   `json:"genre"`
	Tags   []string `json:"tags"`
	// CoverSource is the user-selected image, copied into the managed cover directory.
	CoverSource string `json:"cover_source,omitempty"`
}

// Normalize trims every field and drops empty or repeated tags.
func (in *NewBookInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Year = strings.TrimSpace(in.Year)
	in.Genre = strings.TrimSpace(in.Genre)
	in.CoverSource = strings.TrimSpace(in.CoverSource)
	in.Tags = CleanTags(in.Tags)
}

// ParseTags splits comma-separated user input into clean tags.
// "sci-fi, classic,,sci-fi" → ["sci-fi", "classic"].
func ParseTags(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	return CleanTags(strings.Split(text, ","))
}

// CleanTags trims tags, drops empty ones and keeps the first of any duplicates.
// The result is never nil.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
