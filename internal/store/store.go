// Package store persists the book catalog and user settings as JSON files.
//
// The books file is a JSON array rewritten in full on every save. There is no
// temp-file-then-rename step: a crash mid-write can leave a truncated file.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Options configures a Store.
type Options struct {
	// BooksPath is the catalog file (JSON array of books).
	BooksPath string
	// SettingsPath is the settings file (JSON object).
	SettingsPath string
	Logger       *slog.Logger
}

// Store reads and writes the catalog and settings files.
type Store struct {
	booksPath    string
	settingsPath string
	logger       *slog.Logger
}

// New creates a Store. No file is touched until the first load or save.
func New(opts Options) (*Store, error) {
	if opts.BooksPath == "" {
		return nil, errors.Validation("books path cannot be empty")
	}
	if opts.SettingsPath == "" {
		return nil, errors.Validation("settings path cannot be empty")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{
		booksPath:    opts.BooksPath,
		settingsPath: opts.SettingsPath,
		logger:       logger,
	}, nil
}

// BooksPath returns the catalog file path.
func (s *Store) BooksPath() string {
	return s.booksPath
}

// SettingsPath returns the settings file path.
func (s *Store) SettingsPath() string {
	return s.settingsPath
}

// LoadBooks reads the catalog.
// A missing file is created containing an empty array. Records missing keys get
// empty strings, empty tags and a null cover. Undecodable content is a MALFORMED
// error and the file is left as is.
func (s *Store) LoadBooks() ([]*domain.Book, error) {
	data, err := os.ReadFile(s.booksPath)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("catalog file not found, creating empty catalog", "path", s.booksPath)
		books := []*domain.Book{}
		if err := s.SaveBooks(books); err != nil {
			return nil, err
		}
		return books, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var books []*domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, errors.Malformed(err, "catalog file %s is not a valid book list", s.booksPath)
	}

	out := make([]*domain.Book, 0, len(books))
	for i, b := range books {
		if b == nil {
			return nil, errors.Malformed(nil, "catalog file %s: record %d is null", s.booksPath, i)
		}
		if b.Tags == nil {
			b.Tags = []string{}
		}
		out = append(out, b)
	}

	s.logger.Debug("catalog loaded", "path", s.booksPath, "books", len(out))
	return out, nil
}

// SaveBooks overwrites the catalog with books.
func (s *Store) SaveBooks(books []*domain.Book) error {
	records := make([]*domain.Book, len(books))
	for i, b := range books {
		if b.Tags == nil {
			c := *b
			c.Tags = []string{}
			b = &c
		}
		records[i] = b
	}

	if err := writeJSON(s.booksPath, records); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	s.logger.Debug("catalog saved", "path", s.booksPath, "books", len(books))
	return nil
}

// writeJSON encodes v with two-space indentation and a trailing newline.
// Parent directories are created as needed.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, buf.Bytes(), filePerm)
}
