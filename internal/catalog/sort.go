package catalog

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
)

// SortOrder names one of the orderings offered to the user.
type SortOrder string

// Sort orders, by display label.
const (
	TitleAsc   SortOrder = "Title (A→Z)"
	TitleDesc  SortOrder = "Title (Z→A)"
	AuthorAsc  SortOrder = "Author (A→Z)"
	AuthorDesc SortOrder = "Author (Z→A)"
	YearAsc    SortOrder = "Year (Old→New)"
	YearDesc   SortOrder = "Year (New→Old)"
	GenreAsc   SortOrder = "Genre (A→Z)"
	GenreDesc  SortOrder = "Genre (Z→A)"
)

type ordering struct {
	order SortOrder
	slug  string
	cmp   func(a, b *domain.Book) int
	desc  bool
}

var orderings = []ordering{
	{TitleAsc, "title", byTitle, false},
	{TitleDesc, "title-desc", byTitle, true},
	{AuthorAsc, "author", byAuthor, false},
	{AuthorDesc, "author-desc", byAuthor, true},
	{YearAsc, "year", byYear, false},
	{YearDesc, "year-desc", byYear, true},
	{GenreAsc, "genre", byGenre, false},
	{GenreDesc, "genre-desc", byGenre, true},
}

// SortOrders lists every order in display order.
func SortOrders() []SortOrder {
	out := make([]SortOrder, len(orderings))
	for i, o := range orderings {
		out[i] = o.order
	}
	return out
}

// Slug returns the short command-line name of the order, or "" if unknown.
func (o SortOrder) Slug() string {
	for _, ord := range orderings {
		if ord.order == o {
			return ord.slug
		}
	}
	return ""
}

// ParseSortOrder accepts a display label ("Year (New→Old)") or a slug ("year-desc").
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.TrimSpace(s)
	want := slugify(s)
	for _, o := range orderings {
		if string(o.order) == s || o.slug == want {
			return o.order, nil
		}
	}
	return "", errors.Validationf("unknown sort order %q", s).WithDetails(SortOrders())
}

// Sort returns books ordered by order. Equal keys keep their relative order in
// both directions. An unknown order returns an unsorted copy.
func Sort(books []*domain.Book, order SortOrder) []*domain.Book {
	out := slices.Clone(books)
	for _, o := range orderings {
		if o.order != order {
			continue
		}
		compare := o.cmp
		if o.desc {
			compare = func(a, b *domain.Book) int { return o.cmp(b, a) }
		}
		slices.SortStableFunc(out, compare)
		break
	}
	return out
}

func byTitle(a, b *domain.Book) int  { return strings.Compare(fold(a.Title), fold(b.Title)) }
func byAuthor(a, b *domain.Book) int { return strings.Compare(fold(a.Author), fold(b.Author)) }
func byGenre(a, b *domain.Book) int  { return strings.Compare(fold(a.Genre), fold(b.Genre)) }
func byYear(a, b *domain.Book) int   { return cmp.Compare(YearKey(a.Year), YearKey(b.Year)) }

// YearKey is the numeric sort key of a year: its value when it is all ASCII
// digits, otherwise 0.
func YearKey(year string) int {
	if year == "" {
		return 0
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return n
}

var (
	// Matches any run of non-alphanumeric characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// slugify reduces user input to lowercase ASCII words joined by dashes.
// "Title Desc" -> "title-desc".
func slugify(s string) string {
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
