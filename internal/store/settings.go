package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/errors"
)

// LoadSettings reads the settings file.
// A missing file yields empty settings without creating one. An undecodable file
// is logged and also yields empty settings; the next save replaces it.
func (s *Store) LoadSettings() (*domain.Settings, error) {
	data, err := os.ReadFile(s.settingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := domain.NewSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		s.logger.Warn("settings file is malformed, using defaults",
			"path", s.settingsPath,
			"error", err,
		)
		return domain.NewSettings(), nil
	}

	return settings, nil
}

// SaveSettings overwrites the settings file.
func (s *Store) SaveSettings(settings *domain.Settings) error {
	if settings == nil {
		settings = domain.NewSettings()
	}
	if err := writeJSON(s.settingsPath, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
