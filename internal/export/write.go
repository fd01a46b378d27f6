package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
)

// Write encodes books to w. SQLite and zip need a file and are rejected here.
func Write(w io.Writer, format Format, books []*domain.Book) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, books)
	case FormatJSON:
		return writeJSON(w, books)
	case FormatYAML:
		return writeYAML(w, books)
	default:
		return errors.Validationf("format %q cannot be streamed, export to a file instead", format)
	}
}

func writeCSV(w io.Writer, books []*domain.Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range books {
		if err := cw.Write(csvRow(b)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON uses the catalog file layout.
func writeJSON(w io.Writer, books []*domain.Book) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecords(books)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, books []*domain.Book) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(books)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
