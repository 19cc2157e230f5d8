package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFilesDefaults(t *testing.T) {
	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 5, cfg.Provider.RateLimit)
	assert.Equal(t, 0.55, cfg.Resolver.MinScore)
	assert.False(t, cfg.Precompute.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromFilesLaterFileOverrides(t *testing.T) {
	base := writeConfigFile(t, "base.toml", `
environment = "production"

[server]
port = 9000
`)
	override := writeConfigFile(t, "override.toml", `
[server]
port = 9100
`)

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	// Untouched sections keep their defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFromFilesInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "[server]\nport = -1\n"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n"},
		{"bad min score", "[resolver]\nmin_score = 1.5\n"},
		{"bad schedule", "[precompute]\nenabled = true\nschedule = \"not cron\"\n"},
		{"bad granularity", "[precompute]\nenabled = true\nschedule = \"0 0 6 * * *\"\ngranularities = [\"hourly\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, "bad.toml", tt.content)
			_, err := LoadFromFiles(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SWIFTGRASP_PORT", "9999")
	t.Setenv("SWIFTGRASP_HOST", "0.0.0.0")
	t.Setenv("SWIFTGRASP_ENV", "production")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.True(t, cfg.IsProduction())
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 7070, "127.0.0.1")
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Zero values leave the config untouched.
	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 0 6 * * *"))
	assert.NoError(t, ValidateSchedule("*/30 * * * * *"))
	assert.Error(t, ValidateSchedule(""))
	assert.Error(t, ValidateSchedule("every day"))
	// Five fields only; the seconds field is required.
	assert.Error(t, ValidateSchedule("0 6 * * *"))
}
