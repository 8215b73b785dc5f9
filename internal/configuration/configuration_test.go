package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, defaultConfig.APIBaseURL, config.APIBaseURL)
	require.Equal(t, defaultConfig.RequestTimeout, config.RequestTimeout)
	require.Equal(t, defaultConfig.RevealIntervalMs, config.RevealIntervalMs)

	// The default file is written so the user can edit it.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseReadsExistingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	contents := `{
		"api_base_url": "https://portal.example.edu",
		"user_id": "student-42",
		"device_type": "cli",
		"request_timeout": 30,
		"reveal_interval_ms": 50,
		"database": "` + filepath.Join(dir, "cache", "campusgpt.db") + `"
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.edu", config.APIBaseURL)
	require.Equal(t, "student-42", config.UserID)
	require.Equal(t, 30, config.RequestTimeout)
	require.Equal(t, 50, config.RevealIntervalMs)

	// The database directory is created eagerly.
	_, err = os.Stat(filepath.Join(dir, "cache"))
	require.NoError(t, err)
}

func TestParseEnvironmentOverrides(t *testing.T) {
	t.Setenv("CAMPUSGPT_API_URL", "https://staging.example.edu")
	t.Setenv("CAMPUSGPT_USER_ID", "student-99")

	path := filepath.Join(t.TempDir(), "config.json")
	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "https://staging.example.edu", config.APIBaseURL)
	require.Equal(t, "student-99", config.UserID)
}
