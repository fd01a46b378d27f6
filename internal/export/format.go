// Package export writes a selection of books to CSV, JSON, YAML, SQLite or a
// zip archive bundling the catalog with its cover images.
package export

import (
	"path/filepath"
	"strings"

	"github.com/listenupapp/librarian/internal/errors"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatSQLite  Format = "sqlite"
	FormatArchive Format = "zip"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatYAML, FormatSQLite, FormatArchive}
}

// ParseFormat accepts a format name, case-insensitively. "yml" and "db" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	case "zip":
		return FormatArchive, nil
	default:
		return "", errors.Validationf("unsupported export format %q", s).WithDetails(Formats())
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.Validationf("cannot infer export format from %q", path)
	}
	return ParseFormat(ext)
}
