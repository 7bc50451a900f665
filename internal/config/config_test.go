package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the data dir at a temp dir and clears WORKWEEK_*
// variables that would leak in from the developer's shell.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"WORKWEEK_DATA_DIR", "WORKWEEK_CONFIG", "WORKWEEK_DB", "WORKWEEK_TZ",
		"WORKWEEK_HOST", "WORKWEEK_PORT", "WORKWEEK_IDLE_THRESHOLD",
		"WORKWEEK_NOTIFY", "WORKWEEK_LOG_LEVEL", "WORKWEEK_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
	return home
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644))
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.String("host", "127.0.0.1", "")
	fs.Int("port", 8080, "")
	fs.String("threshold", "120", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".workweek"), cfg.DataDir)
	assert.Equal(t, filepath.Join(home, ".workweek", "workweek.db"), cfg.DBPath)
	assert.Equal(t, 120*time.Second, cfg.IdleThreshold)
	assert.Equal(t, 2*time.Second, cfg.CheckInterval)
	assert.Equal(t, 0.20, cfg.HighlightRatio)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".workweek"), `
idle_threshold = "5m"
check_interval = "1s"
highlight_ratio = 0.3
port = 9090
timezone = "UTC"
notify = true
log_format = "json"
`)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.IdleThreshold)
	assert.Equal(t, time.Second, cfg.CheckInterval)
	assert.Equal(t, 0.3, cfg.HighlightRatio)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Notify)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1", cfg.Host, "absent keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".workweek"), `port = 9090
idle_threshold = "5m"`)
	t.Setenv("WORKWEEK_PORT", "7070")
	t.Setenv("WORKWEEK_IDLE_THRESHOLD", "45")
	t.Setenv("WORKWEEK_DB", "/tmp/custom.db")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.IdleThreshold)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
}

func TestLoad_ChangedFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("WORKWEEK_PORT", "7070")
	t.Setenv("WORKWEEK_HOST", "0.0.0.0")

	cfg, err := Load(testFlags(t, "--port", "6060", "--threshold", "3m"))
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Port)
	assert.Equal(t, 3*time.Minute, cfg.IdleThreshold)
	assert.Equal(t, "0.0.0.0", cfg.Host, "unset flag defaults do not override env")
}

func TestLoad_DataDirFlagSelectsConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeConfig(t, dir, `port = 5050`)

	cfg, err := Load(testFlags(t, "--data-dir", dir))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 5050, cfg.Port)
	assert.Equal(t, filepath.Join(dir, "workweek.db"), cfg.DBPath)
}

func TestLoad_RejectsUnknownFileKeys(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".workweek"), `idle_treshold = "5m"`)

	_, err := Load(nil)
	assert.Error(t, err)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".workweek"), `idle_threshold = "soon"`)

	_, err := Load(nil)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestValidate(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.IdleThreshold = 0 }},
		{"negative interval", func(c *Config) { c.CheckInterval = -time.Second }},
		{"ratio above one", func(c *Config) { c.HighlightRatio = 1.5 }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, base.Validate())
}

func TestNewLogger_HonoursLevelAndFormat(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "user", "alice")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"user":"alice"`)
}
