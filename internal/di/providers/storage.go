package providers

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/config"
	"github.com/listenupapp/librarian/internal/logger"
	"github.com/listenupapp/librarian/internal/media/covers"
	"github.com/listenupapp/librarian/internal/store"
)

// ProvideStore provides the JSON file store for the catalog and settings.
func ProvideStore(i do.Injector) (*store.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.New(store.Options{
		BooksPath:    cfg.Library.BooksFile,
		SettingsPath: cfg.Library.SettingsFile,
		Logger:       log.Logger,
	})
}

// ProvideCoverRenderer picks the cover renderer once at startup.
// Thumbnails are only rendered when enabled and stdout is a terminal.
func ProvideCoverRenderer(i do.Injector) (covers.Renderer, error) {
	cfg := do.MustInvoke[*config.Config](i)

	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	return covers.NewRenderer(cfg.Covers.Thumbnails && tty), nil
}
