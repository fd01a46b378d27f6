package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/config"
	"github.com/listenupapp/librarian/internal/logger"
	"github.com/listenupapp/librarian/internal/service"
	"github.com/listenupapp/librarian/internal/store"
	"github.com/listenupapp/librarian/internal/validation"
)

// ProvideValidator provides the struct validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideLibrary provides the catalog controller, loading the catalog from disk.
func ProvideLibrary(i do.Injector) (*service.Library, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	st := do.MustInvoke[*store.Store](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewLibrary(st, v, cfg.Covers.Dir, log.Logger)
}
