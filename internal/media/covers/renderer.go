package covers

import (
	"os"
	"path/filepath"

	"github.com/listenupapp/librarian/internal/domain"
)

// Texts shown in place of a cover.
const (
	NoCover    = "No cover"
	LoadFailed = "[error loading image]"
)

// Renderer turns a book's cover into the text shown in the details view.
type Renderer interface {
	Render(b *domain.Book) string
}

// NewRenderer picks the renderer once at startup. Thumbnails need an
// interactive terminal; otherwise the file name is shown.
func NewRenderer(thumbnails bool) Renderer {
	if thumbnails {
		return ThumbnailRenderer{}
	}
	return FilenameRenderer{}
}

// ThumbnailRenderer decodes the cover and shows its thumbnail size and BlurHash.
type ThumbnailRenderer struct{}

// Render implements Renderer.
func (ThumbnailRenderer) Render(b *domain.Book) string {
	path, ok := existingCover(b)
	if !ok {
		return NoCover
	}
	thumb, err := MakeThumbnail(path)
	if err != nil {
		return LoadFailed
	}
	return thumb.String()
}

// FilenameRenderer shows only the cover's file name.
type FilenameRenderer struct{}

// Render implements Renderer.
func (FilenameRenderer) Render(b *domain.Book) string {
	path, ok := existingCover(b)
	if !ok {
		return NoCover
	}
	return "Cover: " + filepath.Base(path)
}

// existingCover returns the cover path when the book has one and it exists on disk.
func existingCover(b *domain.Book) (string, bool) {
	path := b.CoverPath()
	if path == "" {
		return "", false
	}
	path = filepath.FromSlash(path)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
