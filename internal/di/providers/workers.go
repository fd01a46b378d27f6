package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/logger"
	"github.com/listenupapp/librarian/internal/store"
	"github.com/listenupapp/librarian/internal/watcher"
)

// FileWatcherHandle wraps the catalog file watcher with shutdown capability.
type FileWatcherHandle struct {
	*watcher.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	return h.Watcher.Stop()
}

// ProvideFileWatcher provides a watcher on the catalog and settings files.
// The caller starts it; the container stops it on shutdown.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	st := do.MustInvoke[*store.Store](i)

	w, err := watcher.New(log.Logger, watcher.Options{})
	if err != nil {
		return nil, err
	}

	for _, path := range []string{st.BooksPath(), st.SettingsPath()} {
		if err := w.Watch(path); err != nil {
			_ = w.Stop()
			return nil, err
		}
	}

	return &FileWatcherHandle{Watcher: w}, nil
}
