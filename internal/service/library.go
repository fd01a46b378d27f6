// Package service holds the library controller that owns the in-memory catalog
// and persists it after every mutation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/listenupapp/librarian/internal/catalog"
	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
	"github.com/listenupapp/librarian/internal/id"
	"github.com/listenupapp/librarian/internal/media/covers"
	"github.com/listenupapp/librarian/internal/validation"
)

// Store persists the catalog and settings.
type Store interface {
	LoadBooks() ([]*domain.Book, error)
	SaveBooks(books []*domain.Book) error
	LoadSettings() (*domain.Settings, error)
	SaveSettings(settings *domain.Settings) error
}

// Library is the catalog controller. Books and settings are loaded once at
// construction; each mutation rewrites the whole catalog file.
// A Library is not safe for concurrent use.
type Library struct {
	store     Store
	validator *validation.Validator
	coverDir  string
	logger    *slog.Logger

	books    []*domain.Book
	settings *domain.Settings
}

// NewLibrary loads the catalog and settings from store.
func NewLibrary(store Store, validator *validation.Validator, coverDir string, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if validator == nil {
		validator = validation.New()
	}

	books, err := store.LoadBooks()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	settings, err := store.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logger.Debug("library loaded", "books", len(books), "appearance_mode", settings.AppearanceMode())

	return &Library{
		store:     store,
		validator: validator,
		coverDir:  coverDir,
		logger:    logger,
		books:     books,
		settings:  settings,
	}, nil
}

// Books returns the catalog in stored order. Callers must not modify it.
func (l *Library) Books() []*domain.Book {
	return l.books
}

// Settings returns the current settings. Callers must not modify them.
func (l *Library) Settings() *domain.Settings {
	return l.settings
}

// Tags returns every tag in use, sorted.
func (l *Library) Tags() []string {
	return catalog.Tags(l.books)
}

// ListOptions narrows and orders a listing. Zero values list everything in stored order.
type ListOptions struct {
	Keyword string
	Tag     string
	Sort    catalog.SortOrder
}

// List applies the keyword search, tag filter and sort order in that sequence.
func (l *Library) List(opts ListOptions) []*domain.Book {
	books := catalog.Search(l.books, opts.Keyword)
	if opts.Tag != "" {
		books = catalog.FilterByTag(books, opts.Tag)
	}
	if opts.Sort != "" {
		books = catalog.Sort(books, opts.Sort)
	}
	return books
}

// Find returns the first book with key.
func (l *Library) Find(key domain.Key) (*domain.Book, error) {
	b := catalog.Find(l.books, key)
	if b == nil {
		return nil, errors.NotFoundf("no book matches %s", key)
	}
	return b, nil
}

// AddBook validates in, copies its cover if any, assigns an ID and persists.
// Invalid input changes nothing. A cover that cannot be copied is logged and
// the book is stored without one.
func (l *Library) AddBook(ctx context.Context, in domain.NewBookInput) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in.Normalize()
	if err := l.validator.Validate(in); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.BookPrefix)
	if err != nil {
		return nil, err
	}

	book := &domain.Book{
		ID:     bookID,
		Title:  in.Title,
		Author: in.Author,
		Year:   in.Year,
		Genre:  in.Genre,
		Tags:   in.Tags,
	}

	if in.CoverSource != "" {
		coverPath, err := covers.Store(in.CoverSource, l.coverDir)
		if err != nil {
			l.logger.Warn("cover not copied, adding book without cover",
				"source", in.CoverSource,
				"error", err,
			)
		} else {
			book.Cover = &coverPath
		}
	}

	books := append(slices.Clip(l.books), book)
	if err := l.store.SaveBooks(books); err != nil {
		return nil, err
	}
	l.books = books

	l.logger.Info("book added",
		"book_id", book.ID,
		"title", book.Title,
		"tags", len(book.Tags),
		"cover", book.Cover != nil,
	)

	return book, nil
}

// AddTag adds tag to every book in keys and returns how many changed.
func (l *Library) AddTag(ctx context.Context, keys domain.KeySet, tag string) (int, error) {
	return l.retag(ctx, keys, tag, catalog.AddTag, "tag added")
}

// RemoveTag removes tag from every book in keys and returns how many changed.
func (l *Library) RemoveTag(ctx context.Context, keys domain.KeySet, tag string) (int, error) {
	return l.retag(ctx, keys, tag, catalog.RemoveTag, "tag removed")
}

func (l *Library) retag(
	ctx context.Context,
	keys domain.KeySet,
	tag string,
	apply func([]*domain.Book, domain.KeySet, string) int,
	msg string,
) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0, errors.ValidationWithDetails("invalid tag", map[string]string{"tag": "is required"})
	}

	// Work on copies so a failed save leaves the catalog as it was.
	books := cloneBooks(l.books)
	changed := apply(books, keys, tag)
	if changed == 0 {
		return 0, nil
	}

	if err := l.store.SaveBooks(books); err != nil {
		return 0, err
	}
	l.books = books

	l.logger.Info(msg, "tag", tag, "changed", changed)
	return changed, nil
}

// Delete removes every book whose key is in keys and returns how many were removed.
// Cover files are left on disk.
func (l *Library) Delete(ctx context.Context, keys domain.KeySet) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	books := catalog.Delete(l.books, keys)
	removed := len(l.books) - len(books)
	if removed == 0 {
		return 0, nil
	}

	if err := l.store.SaveBooks(books); err != nil {
		return 0, err
	}
	l.books = books

	l.logger.Info("books deleted", "removed", removed)
	return removed, nil
}

// SetAppearanceMode validates and persists the appearance mode.
func (l *Library) SetAppearanceMode(ctx context.Context, mode string) (domain.AppearanceMode, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings := l.settings.Clone()
	if err := settings.SetAppearanceMode(mode); err != nil {
		return "", err
	}

	if err := l.store.SaveSettings(settings); err != nil {
		return "", err
	}
	l.settings = settings

	l.logger.Info("appearance mode changed", "mode", settings.AppearanceMode())
	return settings.AppearanceMode(), nil
}

func cloneBooks(books []*domain.Book) []*domain.Book {
	out := make([]*domain.Book, len(books))
	for i, b := range books {
		out[i] = b.Clone()
	}
	return out
}
