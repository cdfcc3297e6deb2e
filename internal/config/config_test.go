package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://schedule-service:8000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "09:00", cfg.Schedule.DefaultStart)
	assert.Equal(t, "17:00", cfg.Schedule.DefaultEnd)
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("SCHEDULE_API_KEY", "s3cret")
	path := writeConfig(t, `
api:
  base_url: http://schedule-service:8000
  api_key: ${SCHEDULE_API_KEY}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.API.APIKey)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "api.base_url")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
