package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/librarian/internal/catalog"
	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
	"github.com/listenupapp/librarian/internal/export"
	"github.com/listenupapp/librarian/internal/id"
	"github.com/listenupapp/librarian/internal/search"
	"github.com/listenupapp/librarian/internal/store"
	"github.com/listenupapp/librarian/internal/validation"
)

// memStore records every save so tests can assert on persistence calls.
type memStore struct {
	books        []*domain.Book
	settings     *domain.Settings
	bookSaves    [][]*domain.Book
	settingSaves int
	saveErr      error
}

func (m *memStore) LoadBooks() ([]*domain.Book, error) { return m.books, nil }

func (m *memStore) SaveBooks(books []*domain.Book) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bookSaves = append(m.bookSaves, books)
	m.books = books
	return nil
}

func (m *memStore) LoadSettings() (*domain.Settings, error) {
	if m.settings == nil {
		return domain.NewSettings(), nil
	}
	return m.settings, nil
}

func (m *memStore) SaveSettings(s *domain.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settingSaves++
	m.settings = s
	return nil
}

func sampleBooks() []*domain.Book {
	return []*domain.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: "1937", Genre: "Fantasy", Tags: []string{"classic"}},
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SF", Tags: []string{"sci-fi"}, ID: "book-dune"},
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SF", Tags: []string{}},
	}
}

func setupTestLibrary(t *testing.T, books []*domain.Book) (*Library, *memStore) {
	t.Helper()

	ms := &memStore{books: books}
	lib, err := NewLibrary(ms, validation.New(), filepath.Join(t.TempDir(), "covers"), nil)
	require.NoError(t, err)
	return lib, ms
}

func TestAddBook_RejectsMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input domain.NewBookInput
		field string
	}{
		{"empty title", domain.NewBookInput{Author: "A", Year: "2000"}, "title"},
		{"blank author", domain.NewBookInput{Title: "T", Author: "   ", Year: "2000"}, "author"},
		{"empty year", domain.NewBookInput{Title: "T", Author: "A"}, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, ms := setupTestLibrary(t, sampleBooks())

			book, err := lib.AddBook(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, book)
			assert.ErrorIs(t, err, errors.ErrValidation)

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Contains(t, domainErr.Details, tt.field)

			assert.Len(t, lib.Books(), 3, "no mutation")
			assert.Empty(t, ms.bookSaves, "no persistence call")
		})
	}
}

func TestAddBook_AppendsAndPersists(t *testing.T) {
	lib, ms := setupTestLibrary(t, sampleBooks())

	book, err := lib.AddBook(context.Background(), domain.NewBookInput{
		Title:  " Neuromancer ",
		Author: "William Gibson",
		Year:   "1984",
		Tags:   []string{"sci-fi", "classic"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Neuromancer", book.Title)
	assert.Equal(t, []string{"sci-fi", "classic"}, book.Tags)
	assert.Nil(t, book.Cover)
	assert.True(t, id.HasPrefix(book.ID, id.BookPrefix))

	require.Len(t, lib.Books(), 4)
	assert.Same(t, book, lib.Books()[3])

	require.Len(t, ms.bookSaves, 1)
	assert.Len(t, ms.bookSaves[0], 4, "the full updated collection is persisted")
}

func TestAddBook_DropsDuplicateTags(t *testing.T) {
	lib, _ := setupTestLibrary(t, nil)

	book, err := lib.AddBook(context.Background(), domain.NewBookInput{
		Title: "T", Author: "A", Year: "1", Tags: []string{"a", " b", "a", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, book.Tags)
}

func TestAddBook_CoverFailureKeepsBook(t *testing.T) {
	lib, ms := setupTestLibrary(t, nil)

	book, err := lib.AddBook(context.Background(), domain.NewBookInput{
		Title: "T", Author: "A", Year: "1",
		CoverSource: filepath.Join(t.TempDir(), "missing.png"),
	})
	require.NoError(t, err)
	assert.Nil(t, book.Cover)
	assert.Len(t, ms.bookSaves, 1)
}

func TestAddBook_CopiesCover(t *testing.T) {
	lib, _ := setupTestLibrary(t, nil)

	src := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg"), 0o644))

	book, err := lib.AddBook(context.Background(), domain.NewBookInput{
		Title: "T", Author: "A", Year: "1", CoverSource: src,
	})
	require.NoError(t, err)
	require.NotNil(t, book.Cover)

	data, err := os.ReadFile(filepath.FromSlash(*book.Cover))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
}

func TestAddBook_SaveFailureLeavesCatalog(t *testing.T) {
	lib, ms := setupTestLibrary(t, sampleBooks())
	ms.saveErr = assert.AnError

	_, err := lib.AddBook(context.Background(), domain.NewBookInput{Title: "T", Author: "A", Year: "1"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, lib.Books(), 3)
}

func TestAddBook_CancelledContext(t *testing.T) {
	lib, ms := setupTestLibrary(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lib.AddBook(ctx, domain.NewBookInput{Title: "T", Author: "A", Year: "1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ms.bookSaves)
}

func TestAddTag_SecondCallChangesNothing(t *testing.T) {
	lib, ms := setupTestLibrary(t, sampleBooks())
	keys := domain.NewKeySet(lib.Books()[0].Key())

	changed, err := lib.AddTag(context.Background(), keys, " favourite ")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = lib.AddTag(context.Background(), keys, "favourite")
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	assert.Len(t, ms.bookSaves, 1, "saves only when something changed")
	assert.Equal(t, []string{"classic", "favourite"}, lib.Books()[0].Tags)
}

func TestAddTag_EmptyTag(t *testing.T) {
	lib, ms := setupTestLibrary(t, sampleBooks())

	_, err := lib.AddTag(context.Background(), domain.NewKeySet(lib.Books()[0].Key()), "  ")
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Empty(t, ms.bookSaves)
}

func TestRemoveTag(t *testing.T) {
	lib, ms := setupTestLibrary(t, sampleBooks())
	dune := lib.Books()[1].Key()

	changed, err := lib.RemoveTag(context.Background(), domain.NewKeySet(dune), "sci-fi")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Empty(t, lib.Books()[1].Tags)
	assert.Len(t, ms.bookSaves, 1)
}

func TestRetag_SaveFailureLeavesCatalog(t *testing.T) {
	lib, ms := setupTestLibrary(t, sampleBooks())
	ms.saveErr = assert.AnError

	_, err := lib.AddTag(context.Background(), domain.NewKeySet(lib.Books()[0].Key()), "new")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"classic"}, lib.Books()[0].Tags)
}

func TestDelete_RemovesDuplicates(t *testing.T) {
	lib, ms := setupTestLibrary(t, sampleBooks())

	removed, err := lib.Delete(context.Background(), domain.NewKeySet(lib.Books()[1].Key()))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	require.Len(t, lib.Books(), 1)
	assert.Equal(t, "The Hobbit", lib.Books()[0].Title)
	assert.Len(t, ms.bookSaves, 1)

	removed, err = lib.Delete(context.Background(), domain.NewKeySet(domain.Key{Title: "Missing"}))
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, ms.bookSaves, 1)
}

func TestSetAppearanceMode(t *testing.T) {
	lib, ms := setupTestLibrary(t, nil)
	assert.Equal(t, domain.AppearanceDark, lib.Settings().AppearanceMode())

	mode, err := lib.SetAppearanceMode(context.Background(), "light")
	require.NoError(t, err)
	assert.Equal(t, domain.AppearanceLight, mode)
	assert.Equal(t, 1, ms.settingSaves)

	_, err = lib.SetAppearanceMode(context.Background(), "neon")
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Equal(t, domain.AppearanceLight, lib.Settings().AppearanceMode())
	assert.Equal(t, 1, ms.settingSaves)
}

func TestList(t *testing.T) {
	lib, _ := setupTestLibrary(t, sampleBooks())

	all := lib.List(ListOptions{})
	assert.Len(t, all, 3)

	scifi := lib.List(ListOptions{Tag: "sci-fi"})
	require.Len(t, scifi, 1)
	assert.Equal(t, "book-dune", scifi[0].ID)

	sorted := lib.List(ListOptions{Sort: catalog.YearDesc})
	assert.Equal(t, "Dune", sorted[0].Title)

	assert.Len(t, lib.List(ListOptions{Keyword: "TOLKIEN", Tag: catalog.AllTags}), 1)
}

func TestFind(t *testing.T) {
	lib, _ := setupTestLibrary(t, sampleBooks())

	b, err := lib.Find(domain.Key{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: "1937", Genre: "Fantasy"})
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", b.Title)

	_, err = lib.Find(domain.Key{Title: "Missing"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestResolve(t *testing.T) {
	lib, _ := setupTestLibrary(t, sampleBooks())
	hobbit := lib.Books()[0].Key()
	dune := lib.Books()[1].Key()

	keys, err := lib.Resolve(Selection{IDs: []string{"book-dune"}, Keys: []domain.Key{hobbit, {Title: "Missing"}}})
	require.NoError(t, err)
	assert.Equal(t, domain.NewKeySet(hobbit, dune), keys)

	keys, err = lib.Resolve(Selection{All: true})
	require.NoError(t, err)
	assert.Equal(t, 2, keys.Len())

	_, err = lib.Resolve(Selection{})
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = lib.Resolve(Selection{IDs: []string{"book-nope"}})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestExport_SelectionOrAll(t *testing.T) {
	lib, _ := setupTestLibrary(t, sampleBooks())
	dir := t.TempDir()

	res, err := lib.Export(context.Background(), filepath.Join(dir, "all.json"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Books)
	assert.Equal(t, export.FormatJSON, res.Format)

	res, err = lib.Export(context.Background(), filepath.Join(dir, "some.csv"), "", domain.NewKeySet(lib.Books()[0].Key()))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Books)
}

func TestFullTextSearch(t *testing.T) {
	lib, _ := setupTestLibrary(t, sampleBooks())

	res, err := lib.FullTextSearch(context.Background(), search.Params{Query: "herbert"})
	require.NoError(t, err)
	assert.Len(t, res.Hits, 2)
}

func TestLibrary_WithFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(store.Options{
		BooksPath:    filepath.Join(dir, "library_db.json"),
		SettingsPath: filepath.Join(dir, "settings.json"),
	})
	require.NoError(t, err)

	lib, err := NewLibrary(s, nil, filepath.Join(dir, "covers"), nil)
	require.NoError(t, err)
	assert.Empty(t, lib.Books())

	_, err = lib.AddBook(context.Background(), domain.NewBookInput{Title: "Dune", Author: "Frank Herbert", Year: "1965"})
	require.NoError(t, err)

	reopened, err := NewLibrary(s, nil, filepath.Join(dir, "covers"), nil)
	require.NoError(t, err)
	require.Len(t, reopened.Books(), 1)
	assert.Equal(t, "Dune", reopened.Books()[0].Title)
}

func TestNewLibrary_MalformedCatalog(t *testing.T) {
	dir := t.TempDir()
	booksPath := filepath.Join(dir, "library_db.json")
	require.NoError(t, os.WriteFile(booksPath, []byte("{oops"), 0o644))

	s, err := store.New(store.Options{BooksPath: booksPath, SettingsPath: filepath.Join(dir, "settings.json")})
	require.NoError(t, err)

	_, err = NewLibrary(s, nil, dir, nil)
	assert.ErrorIs(t, err, errors.ErrMalformed)
}
