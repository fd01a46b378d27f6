// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Library LibraryConfig
	Covers  CoversConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// LibraryConfig holds the locations of the persisted catalog.
type LibraryConfig struct {
	DataDir      string
	BooksFile    string // default: {data}/library_db.json
	SettingsFile string // default: {data}/settings.json
}

// CoversConfig holds cover storage and rendering configuration.
type CoversConfig struct {
	Dir string // default: {data}/covers
	// Thumbnails enables blurhash thumbnails when stdout is a terminal (default: true)
	Thumbnails bool
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
//
// Parsing stops at the first non-flag argument; the remaining arguments are returned.
func LoadConfig(args []string) (*Config, []string, error) {
	fs := flag.NewFlagSet("librarian", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataDir := fs.String("data-dir", "", "Directory holding the catalog files (default: .)")
	booksFile := fs.String("books-file", "", "Path to the book catalog JSON file")
	settingsFile := fs.String("settings-file", "", "Path to the settings JSON file")
	coversDir := fs.String("covers-dir", "", "Directory for copied cover images")
	thumbnails := fs.String("cover-thumbnails", "", "Render cover thumbnails on terminals (default: true)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	// godotenv never overrides variables already present in the environment.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "warn"),
		},
		Library: LibraryConfig{
			DataDir:      getConfigValue(*dataDir, "LIBRARIAN_DATA_DIR", "."),
			BooksFile:    getConfigValue(*booksFile, "LIBRARIAN_BOOKS_FILE", ""),
			SettingsFile: getConfigValue(*settingsFile, "LIBRARIAN_SETTINGS_FILE", ""),
		},
		Covers: CoversConfig{
			Dir:        getConfigValue(*coversDir, "LIBRARIAN_COVERS_DIR", ""),
			Thumbnails: getBoolConfigValue(*thumbnails, "LIBRARIAN_COVER_THUMBNAILS", true),
		},
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, nil, fmt.Errorf("invalid path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, fs.Args(), nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Library.BooksFile == "" {
		return errors.New("books file cannot be empty after expansion")
	}
	if c.Library.BooksFile == c.Library.SettingsFile {
		return errors.New("books file and settings file must differ")
	}

	return nil
}

// expandPaths resolves the data directory and derives unset file locations from it.
func (c *Config) expandPaths() error {
	dataDir, err := expandPath(c.Library.DataDir, ".")
	if err != nil {
		return err
	}
	c.Library.DataDir = dataDir

	if c.Library.BooksFile, err = expandPath(c.Library.BooksFile, filepath.Join(dataDir, "library_db.json")); err != nil {
		return err
	}
	if c.Library.SettingsFile, err = expandPath(c.Library.SettingsFile, filepath.Join(dataDir, "settings.json")); err != nil {
		return err
	}
	if c.Covers.Dir, err = expandPath(c.Covers.Dir, filepath.Join(dataDir, "covers")); err != nil {
		return err
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is expanded instead.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		path = defaultPath
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}
