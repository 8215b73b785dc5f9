package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"campusgpt/internal/file"
)

var defaultConfig = Config{
	APIBaseURL:       "http://localhost:8080",
	DeviceType:       "cli",
	RequestTimeout:   60,
	RevealIntervalMs: 100,
	Database:         "~/.config/campusgpt/campusgpt.db",
}

// Config holds configuration for the campusgpt tool.
type Config struct {
	// Base URL of the campus portal API.
	APIBaseURL string `json:"api_base_url"`
	// Portal user id, sent as the x-user-id header.
	UserID string `json:"user_id"`
	// Device type reported to the backend.
	DeviceType string `json:"device_type"`
	// Request timeout in seconds. Applies to every API call.
	RequestTimeout int `json:"request_timeout"`
	// Delay between revealed words of an assistant reply, in milliseconds.
	RevealIntervalMs int `json:"reveal_interval_ms"`
	// Path of the local room/message cache.
	Database string `json:"database"`
}

// Parse a configuration file. Values from the environment (optionally via a
// .env file) override the file's contents.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}

	applyEnvironment(config)

	expandedDatabasePath, err := file.ExpandPath(config.Database)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Database = expandedDatabasePath
	if err := os.MkdirAll(filepath.Dir(config.Database), 0755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}
	return config, nil
}

// applyEnvironment overrides config fields from the environment.
func applyEnvironment(config *Config) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if v := os.Getenv("CAMPUSGPT_API_URL"); v != "" {
		config.APIBaseURL = v
	}
	if v := os.Getenv("CAMPUSGPT_USER_ID"); v != "" {
		config.UserID = v
	}
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
