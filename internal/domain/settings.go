package domain

import (
	"encoding/json"
	"maps"

	"github.com/listenupapp/librarian/internal/errors"
)

// AppearanceMode is the persisted UI theme preference.
type AppearanceMode string

// Appearance modes.
const (
	AppearanceDark   AppearanceMode = "dark"
	AppearanceLight  AppearanceMode = "light"
	AppearanceSystem AppearanceMode = "system"

	DefaultAppearance = AppearanceDark
)

// AppearanceModeKey is the settings key holding the appearance mode.
const AppearanceModeKey = "appearance_mode"

// AppearanceModes lists the accepted modes in display order.
func AppearanceModes() []AppearanceMode {
	return []AppearanceMode{AppearanceDark, AppearanceLight, AppearanceSystem}
}

// ParseAppearanceMode validates a user-supplied mode.
func ParseAppearanceMode(s string) (AppearanceMode, error) {
	switch m := AppearanceMode(s); m {
	case AppearanceDark, AppearanceLight, AppearanceSystem:
		return m, nil
	default:
		return "", errors.Validationf("appearance mode %q must be dark, light or system", s)
	}
}

// Settings is the option-name to value mapping persisted next to the catalog.
// Keys this program does not know about are kept verbatim.
type Settings struct {
	values map[string]any
}

// NewSettings returns empty settings.
func NewSettings() *Settings {
	return &Settings{values: map[string]any{}}
}

// Get returns the raw value stored under key.
func (s *Settings) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key.
func (s *Settings) Set(key string, value any) {
	if s.values == nil {
		s.values = map[string]any{}
	}
	s.values[key] = value
}

// Len returns the number of stored options.
func (s *Settings) Len() int {
	return len(s.values)
}

// AppearanceMode returns the stored mode, or the dark default when absent or invalid.
func (s *Settings) AppearanceMode() AppearanceMode {
	raw, ok := s.values[AppearanceModeKey].(string)
	if !ok {
		return DefaultAppearance
	}
	mode, err := ParseAppearanceMode(raw)
	if err != nil {
		return DefaultAppearance
	}
	return mode
}

// SetAppearanceMode validates and stores mode.
func (s *Settings) SetAppearanceMode(mode string) error {
	m, err := ParseAppearanceMode(mode)
	if err != nil {
		return err
	}
	s.Set(AppearanceModeKey, string(m))
	return nil
}

// MarshalJSON encodes the settings as a flat JSON object.
func (s *Settings) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.values)
}

// UnmarshalJSON replaces the settings with the decoded object.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if values == nil {
		values = map[string]any{}
	}
	s.values = values
	return nil
}

// Clone returns an independent shallow copy of the option map.
func (s *Settings) Clone() *Settings {
	return &Settings{values: maps.Clone(s.values)}
}
