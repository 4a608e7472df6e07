package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskreminder/internal/store/jsonstore"
)

// isolate points XDG dirs and the .env file at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	prev := DotEnvFile
	DotEnvFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { DotEnvFile = prev })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverJSON, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(dir, "data", "taskreminder", "tasks.json"), cfg.Store.Path)
	assert.Equal(t, jsonstore.DefaultPath(), cfg.Store.Path)
	assert.Equal(t, "classic", cfg.UI.Theme)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Empty(t, cfg.Events.NATSURL)
}

func TestLoadDefaultFile(t *testing.T) {
	isolate(t)
	writeFile(t, DefaultPath(), `
[store]
path = "/tmp/elsewhere.json"

[ui]
theme = "neon"
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.json", cfg.Store.Path)
	assert.Equal(t, "neon", cfg.UI.Theme)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	writeFile(t, path, "[store\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to load config")
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.toml")
	writeFile(t, path, `
[store]
driver = "json"

[log]
verbosity = 1
`)
	t.Setenv("TASKREMINDER_STORE_DRIVER", "postgres")
	t.Setenv("TASKREMINDER_STORE_DSN", "postgres://localhost/reminders")
	t.Setenv("TASKREMINDER_EVENTS_NATS_URL", "nats://127.0.0.1:4222")
	t.Setenv("TASKREMINDER_LOG_VERBOSITY", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/reminders", cfg.Store.DSN)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
	assert.Equal(t, 2, cfg.Log.Verbosity)
}

func TestDotEnvFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "TASKREMINDER_UI_THEME=mono\n")
	t.Cleanup(func() { os.Unsetenv("TASKREMINDER_UI_THEME") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mono", cfg.UI.Theme)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "store.driver", envKey("TASKREMINDER_STORE_DRIVER"))
	assert.Equal(t, "events.nats_url", envKey("TASKREMINDER_EVENTS_NATS_URL"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"json ok", Config{Store: StoreConfig{Driver: DriverJSON, Path: "x.json"}}, ""},
		{"json without path", Config{Store: StoreConfig{Driver: DriverJSON}}, "store.path"},
		{"postgres without dsn", Config{Store: StoreConfig{Driver: DriverPostgres}}, "store.dsn"},
		{"unknown driver", Config{Store: StoreConfig{Driver: "sqlite"}}, "unknown store.driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
