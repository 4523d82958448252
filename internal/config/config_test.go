package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/rosterview/internal/logging"
)

// isolate points the rosterview home at a temp dir and runs from another
// temp dir so no real .env or config is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(HomeEnvVar, home)
	t.Chdir(t.TempDir())
	return home
}

func TestLoad_DefaultsMatchNew(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	want := New()
	assert.Equal(t, want.API, cfg.API)
	assert.Equal(t, want.Logging, cfg.Logging)
	assert.Equal(t, want.Roster, cfg.Roster)
	assert.Equal(t, want.Prefetch, cfg.Prefetch)
	assert.Equal(t, want.Fixture, cfg.Fixture)
	assert.Equal(t, filepath.Join(home, "token"), cfg.Auth.TokenFile)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`api:
  base_url: https://api.example.com
  timeout: 3s
roster:
  separators: ";"
prefetch:
  enabled: true
`), 0o600))
	t.Setenv("ROSTERVIEW_PREFETCH_CONCURRENCY", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, ";", cfg.Roster.Separators)
	assert.True(t, cfg.Prefetch.Enabled)
	assert.Equal(t, 9, cfg.Prefetch.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://file.example.com\n"), 0o600))
	t.Setenv("ROSTERVIEW_API_URL", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("ROSTERVIEW_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ROSTERVIEW_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad url", env: map[string]string{"ROSTERVIEW_API_URL": "ftp://nope"}},
		{name: "bad level", env: map[string]string{"ROSTERVIEW_LOG_LEVEL": "chatty"}},
		{name: "bad constraint", env: map[string]string{"ROSTERVIEW_API_MIN_VERSION": ">=x.y"}},
		{name: "zero concurrency", env: map[string]string{"ROSTERVIEW_PREFETCH_CONCURRENCY": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	cfg := New()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.Auth.Token = "secret"
	cfg.SetConfigPath(filepath.Join(t.TempDir(), "nested", "config.yaml"))

	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(cfg.ConfigPath())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), "timeout: 10s")

	loaded, err := Load(cfg.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.API.BaseURL)
	assert.Empty(t, loaded.Auth.Token)
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "warn", Format: "console", File: "/tmp/r.log"}

	cliCfg := lc.ToLoggingConfig(false)
	assert.Equal(t, logging.OutputStderr, cliCfg.Output)
	assert.Nil(t, cliCfg.Fallback)

	tuiCfg := lc.ToLoggingConfig(true)
	assert.Equal(t, logging.OutputFile, tuiCfg.Output)
	assert.Equal(t, io.Discard, tuiCfg.Fallback)
	assert.Equal(t, "/tmp/r.log", tuiCfg.File)
	assert.Equal(t, "warn", tuiCfg.Level)
}
