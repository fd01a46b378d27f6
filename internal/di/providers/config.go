// Package providers contains the samber/do provider functions that build the librarian object graph.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/config"
	"github.com/listenupapp/librarian/internal/logger"
)

// ProvideLogger provides the application logger configured from the loaded config.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}), nil
}
