// Package covers copies user-selected cover images into the managed cover
// directory and renders them for display.
package covers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrCoverUnavailable is returned when a cover cannot be copied.
var ErrCoverUnavailable = errors.New("cover unavailable")

// Store copies the image at src into dir and returns the new path with forward
// slashes. The copy is named "<source mtime unix seconds>_<source base name>",
// so copying the same file twice within one second overwrites the first copy.
// dir is created before the source is inspected.
func Store(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrCoverUnavailable, dir, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCoverUnavailable, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrCoverUnavailable, src)
	}

	name := fmt.Sprintf("%d_%s", info.ModTime().Unix(), filepath.Base(src))
	dest := filepath.Join(dir, name)

	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCoverUnavailable, err)
	}

	return filepath.ToSlash(dest), nil
}

// copyFile copies src to dest, removing dest if the copy does not complete.
func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close destination: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}
