package export

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/listenupapp/librarian/internal/domain"
)

// ArchiveVersion is the archive layout version.
const ArchiveVersion = "1.0"

// Manifest describes an archive's contents. It is written last so the counts are final.
type Manifest struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Books     int       `json:"books"`
	Covers    int       `json:"covers"`
}

// WriteArchive writes a zip holding books.json, the cover images under covers/
// and manifest.json. Cover paths in books.json are rewritten to point inside the
// archive. Covers that cannot be read are left out and their book keeps a null cover.
func WriteArchive(ctx context.Context, w io.Writer, books []*domain.Book) (*Manifest, error) {
	zw := zip.NewWriter(w)
	manifest := &Manifest{Version: ArchiveVersion, CreatedAt: time.Now().UTC()}

	records := toRecords(books)
	written := make(map[string]bool)
	for i, b := range books {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := b.CoverPath()
		if src == "" {
			continue
		}

		archivePath := path.Join("covers", path.Base(filepath.ToSlash(src)))
		if written[archivePath] {
			records[i].Cover = &archivePath
			continue
		}
		if err := copyFileToZip(zw, filepath.FromSlash(src), archivePath); err != nil {
			records[i].Cover = nil
			continue
		}
		written[archivePath] = true
		records[i].Cover = &archivePath
		manifest.Covers++
	}

	cw, err := zw.Create("books.json")
	if err != nil {
		return nil, fmt.Errorf("create books.json: %w", err)
	}
	enc := json.NewEncoder(cw)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode books.json: %w", err)
	}
	manifest.Books = len(records)

	mw, err := zw.Create("manifest.json")
	if err != nil {
		return nil, fmt.Errorf("create manifest.json: %w", err)
	}
	if err := json.NewEncoder(mw).Encode(manifest); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return manifest, nil
}

func copyFileToZip(zw *zip.Writer, srcPath, archivePath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = archivePath
	header.Method = zip.Store

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}
