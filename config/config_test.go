package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("06:30")
	require.NoError(t, err)
	assert.Equal(t, 6, hour)
	assert.Equal(t, 30, minute)

	_, _, err = ParseClock("25:00")
	assert.Error(t, err)
	_, _, err = ParseClock("morning")
	assert.Error(t, err)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[options]
data_dir = "` + dir + `"

[[platform.backends]]
name = "primary"
url = "https://api.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Options.PostDelaySeconds)
	assert.Equal(t, 30, cfg.Platform.RequestTimeoutSeconds)
	assert.Equal(t, 4, cfg.Platform.MaxConcurrentRequests)
	assert.Equal(t, 1, cfg.Schedule.PublishIntervalHours)
	assert.Equal(t, "06:30", cfg.Schedule.DraftCreation)
	assert.Equal(t, "08:00", cfg.Schedule.MorningHeadlines)
	assert.Equal(t, 3*time.Second, cfg.Platform.RequestInterval())
}

func TestLoadConfigRejectsMissingDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[[platform.backends]]
name = "primary"
url = "https://api.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsNoBackends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[options]
data_dir = "` + dir + `"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := CreateDefaultConfig()
	cfg.Options.DataDir = dir
	cfg.Options.ReviewMode = false
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, dir, loaded.Options.DataDir)
	assert.False(t, loaded.Options.ReviewMode)
	assert.Equal(t, cfg.Schedule, loaded.Schedule)
}

func TestCredentialsFailFast(t *testing.T) {
	t.Setenv("POSTPILOT_API_TOKEN", "")
	t.Setenv("POSTPILOT_USER_ID", "")

	_, err := LoadCredentials(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTPILOT_API_TOKEN")
	assert.Contains(t, err.Error(), "POSTPILOT_USER_ID")

	t.Setenv("POSTPILOT_API_TOKEN", "tok")
	t.Setenv("POSTPILOT_USER_ID", "uid")

	creds, err := LoadCredentials(false)
	require.NoError(t, err)
	assert.Equal(t, "tok", creds.APIToken)

	_, err = LoadCredentials(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTPILOT_GENERATOR_TOKEN")
}
