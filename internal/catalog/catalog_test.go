package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
)

func sampleBooks() []*domain.Book {
	return []*domain.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: "1937", Genre: "Fantasy", Tags: []string{"classic"}, ID: "book-1"},
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SF", Tags: []string{"sci-fi", "classic"}, ID: "book-2"},
		{Title: "The Silmarillion", Author: "J. R. R. TOLKIEN", Year: "1977", Genre: "Fantasy", Tags: []string{}},
		{Title: "Neuromancer", Author: "William Gibson", Year: "1984", Genre: "SF", Tags: []string{"sci-fi"}, ID: "book-4"},
	}
}

func titles(books []*domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestSearch(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{"author case-insensitive", "tolkien", []string{"The Hobbit", "The Silmarillion"}},
		{"title", "DUNE", []string{"Dune"}},
		{"substring", "man", []string{"Neuromancer"}},
		{"no match", "austen", []string{}},
		{"empty matches all", "", []string{"The Hobbit", "Dune", "The Silmarillion", "Neuromancer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Search(books, tt.keyword)))
		})
	}
}

func TestSearch_UnicodeFolding(t *testing.T) {
	books := []*domain.Book{{Title: "Straße", Author: "X"}, {Title: "ÉMILE", Author: "Rousseau"}}

	assert.Equal(t, []string{"ÉMILE"}, titles(Search(books, "émile")))
	assert.Equal(t, []string{"Straße"}, titles(Search(books, "STRASSE")))
}

func TestSearch_DoesNotAliasInput(t *testing.T) {
	books := sampleBooks()
	got := Search(books, "")
	got[0] = nil
	assert.NotNil(t, books[0])
}

func TestFilterByTag(t *testing.T) {
	books := sampleBooks()

	t.Run("All returns identical collection", func(t *testing.T) {
		got := FilterByTag(books, AllTags)
		require.Len(t, got, len(books))
		for i := range books {
			assert.Same(t, books[i], got[i])
		}
	})

	t.Run("exact membership", func(t *testing.T) {
		assert.Equal(t, []string{"Dune", "Neuromancer"}, titles(FilterByTag(books, "sci-fi")))
	})

	t.Run("case-sensitive", func(t *testing.T) {
		assert.Empty(t, FilterByTag(books, "Sci-Fi"))
	})
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"classic", "sci-fi"}, Tags(sampleBooks()))
	assert.Empty(t, Tags(nil))
}

func TestAddTag_Idempotent(t *testing.T) {
	books := sampleBooks()
	keys := domain.NewKeySet(books[0].Key())

	assert.Equal(t, 1, AddTag(books, keys, "favourite"))
	assert.Equal(t, 0, AddTag(books, keys, "favourite"))
	assert.Equal(t, []string{"classic", "favourite"}, books[0].Tags)
}

func TestAddTag_EmptyTag(t *testing.T) {
	books := sampleBooks()
	assert.Equal(t, 0, AddTag(books, domain.NewKeySet(books[0].Key()), ""))
	assert.Equal(t, 0, RemoveTag(books, domain.NewKeySet(books[0].Key()), ""))
}

func TestRemoveTag(t *testing.T) {
	books := sampleBooks()
	keys := domain.NewKeySet(books[0].Key(), books[1].Key(), books[2].Key())

	assert.Equal(t, 2, RemoveTag(books, keys, "classic"))
	assert.Equal(t, 0, RemoveTag(books, keys, "classic"))
	assert.Equal(t, []string{}, books[0].Tags)
	assert.Equal(t, []string{"sci-fi"}, books[1].Tags)
}

func TestDelete_RemovesAllDuplicates(t *testing.T) {
	dup := &domain.Book{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SF"}
	books := append(sampleBooks(), dup)

	got := Delete(books, domain.NewKeySet(dup.Key()))

	assert.Equal(t, []string{"The Hobbit", "The Silmarillion", "Neuromancer"}, titles(got))
	assert.Len(t, books, 5, "input is not resized")
}

func TestDelete_GenreIsPartOfIdentity(t *testing.T) {
	books := []*domain.Book{
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SF"},
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: ""},
	}

	got := Delete(books, domain.NewKeySet(books[1].Key()))
	require.Len(t, got, 1)
	assert.Equal(t, "SF", got[0].Genre)
}

func TestSelectAndFind(t *testing.T) {
	books := sampleBooks()
	keys := domain.NewKeySet(books[3].Key(), books[0].Key())

	assert.Equal(t, []string{"The Hobbit", "Neuromancer"}, titles(Select(books, keys)))
	assert.Same(t, books[1], Find(books, books[1].Key()))
	assert.Nil(t, Find(books, domain.Key{Title: "Missing"}))
}

func TestKeysForIDs(t *testing.T) {
	books := sampleBooks()

	keys := KeysForIDs(books, []string{"book-2", "book-404", ""})
	assert.Equal(t, 1, keys.Len())
	assert.True(t, keys.Has(books[1].Key()))
}

func TestSort(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{TitleAsc, []string{"Dune", "Neuromancer", "The Hobbit", "The Silmarillion"}},
		{TitleDesc, []string{"The Silmarillion", "The Hobbit", "Neuromancer", "Dune"}},
		{AuthorAsc, []string{"Dune", "The Silmarillion", "The Hobbit", "Neuromancer"}},
		{YearAsc, []string{"The Hobbit", "Dune", "The Silmarillion", "Neuromancer"}},
		{YearDesc, []string{"Neuromancer", "The Silmarillion", "Dune", "The Hobbit"}},
		{GenreAsc, []string{"The Hobbit", "The Silmarillion", "Dune", "Neuromancer"}},
		{GenreDesc, []string{"Dune", "Neuromancer", "The Hobbit", "The Silmarillion"}},
	}

	for _, tt := range tests {
		t.Run(tt.order.Slug(), func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Sort(books, tt.order)))
		})
	}

	assert.Equal(t, "The Hobbit", books[0].Title, "input order is untouched")
}

func TestSort_NonNumericYearSortsAsZero(t *testing.T) {
	books := []*domain.Book{{Title: "2001", Year: "2001"}, {Title: "1999", Year: "1999"}, {Title: "abc", Year: "abc"}}

	assert.Equal(t, []string{"abc", "1999", "2001"}, titles(Sort(books, YearAsc)))
}

func TestSort_StableInBothDirections(t *testing.T) {
	books := []*domain.Book{
		{Title: "first", Genre: "SF"},
		{Title: "second", Genre: "Fantasy"},
		{Title: "third", Genre: "sf"},
	}

	assert.Equal(t, []string{"second", "first", "third"}, titles(Sort(books, GenreAsc)))
	assert.Equal(t, []string{"first", "third", "second"}, titles(Sort(books, GenreDesc)))
}

func TestSort_UnknownOrderReturnsCopy(t *testing.T) {
	books := sampleBooks()
	got := Sort(books, SortOrder("Pages (Few→Many)"))
	assert.Equal(t, titles(books), titles(got))
}

func TestYearKey(t *testing.T) {
	tests := map[string]int{
		"1965":  1965,
		"0042":  42,
		"":      0,
		"abc":   0,
		"-300":  0,
		"19 65": 0,
		"１９６５":  0,
	}
	for in, want := range tests {
		assert.Equal(t, want, YearKey(in), in)
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input string
		want  SortOrder
	}{
		{"Title (A→Z)", TitleAsc},
		{"title", TitleAsc},
		{"year-desc", YearDesc},
		{"Year Desc", YearDesc},
		{" author_desc ", AuthorDesc},
		{"GENRE", GenreAsc},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortOrder(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSortOrder("pages")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestSortOrders(t *testing.T) {
	orders := SortOrders()
	require.Len(t, orders, 8)
	assert.Equal(t, TitleAsc, orders[0])
	for _, o := range orders {
		assert.NotEmpty(t, o.Slug())
	}
}
