package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/listenupapp/librarian/internal/domain"
)

// Result describes a finished export.
type Result struct {
	Path     string
	Format   Format
	Books    int
	Size     int64
	Checksum string
	Duration time.Duration
}

// ExportFile writes books to path. An empty format is inferred from the extension.
// The file is written next to path and renamed into place on success, so a
// failed export never leaves a partial file behind.
func ExportFile(ctx context.Context, path string, format Format, books []*domain.Book) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	} else if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	tmpPath := path + ".tmp"
	defer os.Remove(tmpPath)

	if err := writeFile(ctx, tmpPath, format, books); err != nil {
		return nil, err
	}

	checksum, size, err := checksumFile(tmpPath)
	if err != nil {
		return nil, err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("rename export: %w", err)
	}

	return &Result{
		Path:     path,
		Format:   format,
		Books:    len(books),
		Size:     size,
		Checksum: checksum,
		Duration: time.Since(start),
	}, nil
}

func writeFile(ctx context.Context, path string, format Format, books []*domain.Book) (err error) {
	if format == FormatSQLite {
		return WriteSQLite(ctx, path, books)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
	}()

	if format == FormatArchive {
		_, err = WriteArchive(ctx, f, books)
		return err
	}
	return Write(f, format, books)
}

func checksumFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash export file: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), size, nil
}
