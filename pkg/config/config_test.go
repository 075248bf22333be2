package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npackd/npackd-go/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, "text", cfg.Settings.OutputFormat)
	assert.Equal(t, 30*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, 5, cfg.Settings.MaxConcurrent)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `settings:
  log_level: debug
  output_format: json
  max_concurrent_loads: 9
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, "json", cfg.Settings.OutputFormat)
	assert.Equal(t, 9, cfg.Settings.MaxConcurrent)
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	tempDir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(tempDir, "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("settings:\n  log_level: debug\n"), 0o644))

	t.Setenv("NPACKD_SETTINGS_LOG_LEVEL", "error")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Settings.LogLevel)
}

func TestSaveAndReloadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	cfg.Settings.OutputFormat = "json"

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "test-config.yaml")

	require.NoError(t, cfg.SaveConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	reloaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", reloaded.Settings.LogLevel)
	assert.Equal(t, "json", reloaded.Settings.OutputFormat)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: DefaultConfig(),
		},
		{
			name: "negative timeout",
			config: &Config{Settings: Settings{
				HTTPTimeout: -1, MaxConcurrent: 1, OutputFormat: "text", LogLevel: "info",
			}},
			wantErr: true,
			errMsg:  "http_timeout",
		},
		{
			name: "zero concurrency",
			config: &Config{Settings: Settings{
				MaxConcurrent: 0, OutputFormat: "text", LogLevel: "info",
			}},
			wantErr: true,
			errMsg:  "max_concurrent_loads",
		},
		{
			name: "invalid output format",
			config: &Config{Settings: Settings{
				MaxConcurrent: 1, OutputFormat: "xml", LogLevel: "info",
			}},
			wantErr: true,
			errMsg:  "output_format",
		},
		{
			name: "invalid log level",
			config: &Config{Settings: Settings{
				MaxConcurrent: 1, OutputFormat: "text", LogLevel: "verbose",
			}},
			wantErr: true,
			errMsg:  "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSetAndGetValue(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetValue("log_level", "debug"))
	v, err := cfg.GetValue("log_level")
	require.NoError(t, err)
	assert.Equal(t, "debug", v)

	require.NoError(t, cfg.SetValue("max_concurrent_loads", "12"))
	v, err = cfg.GetValue("max_concurrent_loads")
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	assert.Error(t, cfg.SetValue("max_concurrent_loads", "not-a-number"))
	_, err = cfg.GetValue("nonexistent_key")
	assert.Error(t, err)
}

func TestToMapIncludesKnownKeys(t *testing.T) {
	cfg := DefaultConfig()
	m := cfg.ToMap()
	assert.Equal(t, "info", m["log_level"])
	assert.Equal(t, "text", m["output_format"])
}

func TestToAuthMap(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.ToAuthMap())

	cfg.Settings.RepositoryAuth = map[string]*AuthConfig{
		"https://example.test/repo.xml": {BasicAuth: &BasicAuth{Username: "u", Password: "p"}},
	}
	authMap := cfg.ToAuthMap()
	require.Contains(t, authMap, "https://example.test/repo.xml")
	assert.Equal(t, auth.BasicAuthType, authMap["https://example.test/repo.xml"].Type())
}
