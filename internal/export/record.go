package export

import (
	"strings"

	"github.com/listenupapp/librarian/internal/domain"
)

// Columns is the fixed CSV column order.
var Columns = []string{"title", "author", "year", "genre", "tags", "cover"}

// record is the exported shape of a book.
type record struct {
	Title  string   `json:"title" yaml:"title"`
	Author string   `json:"author" yaml:"author"`
	Year   string   `json:"year" yaml:"year"`
	Genre  string   `json:"genre" yaml:"genre"`
	Tags   []string `json:"tags" yaml:"tags"`
	Cover  *string  `json:"cover" yaml:"cover"`
	ID     string   `json:"id,omitempty" yaml:"id,omitempty"`
}

func toRecord(b *domain.Book) record {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return record{
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
		Genre:  b.Genre,
		Tags:   tags,
		Cover:  b.Cover,
		ID:     b.ID,
	}
}

func toRecords(books []*domain.Book) []record {
	out := make([]record, len(books))
	for i, b := range books {
		out[i] = toRecord(b)
	}
	return out
}

// csvRow renders a book in Columns order. Tags share one field joined by commas.
func csvRow(b *domain.Book) []string {
	return []string{
		b.Title,
		b.Author,
		b.Year,
		b.Genre,
		strings.Join(b.Tags, ","),
		b.CoverPath(),
	}
}
