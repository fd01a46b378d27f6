// Package di provides dependency injection configuration for librarian.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/config"
	"github.com/listenupapp/librarian/internal/di/providers"
	"github.com/listenupapp/librarian/internal/logger"
	"github.com/listenupapp/librarian/internal/media/covers"
	"github.com/listenupapp/librarian/internal/service"
	"github.com/listenupapp/librarian/internal/store"
	"github.com/listenupapp/librarian/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCoverRenderer)

	// Business services
	do.Provide(injector, providers.ProvideLibrary)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)

	return injector
}

// Bootstrap initializes the core services. The catalog is loaded here, so a
// malformed catalog file surfaces before any command runs.
// The file watcher stays lazy and is only built by commands that need it.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*store.Store](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[covers.Renderer](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.Library](injector); err != nil {
		return err
	}
	return nil
}
