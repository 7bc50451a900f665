// Package config resolves runtime settings from defaults, an optional TOML
// file, WORKWEEK_* environment variables and explicitly set CLI flags, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// Config holds all application configuration.
type Config struct {
	DataDir        string
	DBPath         string
	ConfigFile     string
	Timezone       string
	IdleThreshold  time.Duration
	CheckInterval  time.Duration
	HighlightRatio float64
	Host           string
	Port           int
	WriteTimeout   time.Duration
	Notify         bool
	LogLevel       string
	LogFormat      string
}

// Duration decodes TOML strings such as "2m" or "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// fileConfig mirrors config.toml. Pointer fields distinguish "absent" from
// a zero value.
type fileConfig struct {
	DBPath         *string   `toml:"db_path"`
	Timezone       *string   `toml:"timezone"`
	IdleThreshold  *Duration `toml:"idle_threshold"`
	CheckInterval  *Duration `toml:"check_interval"`
	HighlightRatio *float64  `toml:"highlight_ratio"`
	Host           *string   `toml:"host"`
	Port           *int      `toml:"port"`
	WriteTimeout   *Duration `toml:"write_timeout"`
	Notify         *bool     `toml:"notify"`
	LogLevel       *string   `toml:"log_level"`
	LogFormat      *string   `toml:"log_format"`
}

// Default returns a Config with default values.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("determining home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".workweek")
	return Config{
		DataDir:        dataDir,
		IdleThreshold:  120 * time.Second,
		CheckInterval:  2 * time.Second,
		HighlightRatio: 0.20,
		Host:           "127.0.0.1",
		Port:           8080,
		WriteTimeout:   30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
	}, nil
}

// Load builds a Config by layering: defaults < config file < env < flags.
// The provided FlagSet must already be parsed by the caller; only flags
// that were explicitly set override the lower layers. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}

	// The data dir and config path decide which file is read, so resolve
	// them from env and flags first.
	cfg.DataDir = firstNonEmpty(flagString(fs, "data-dir"), os.Getenv("WORKWEEK_DATA_DIR"), cfg.DataDir)
	cfg.ConfigFile = firstNonEmpty(flagString(fs, "config"), os.Getenv("WORKWEEK_CONFIG"),
		filepath.Join(cfg.DataDir, "config.toml"))

	if err := cfg.loadFile(); err != nil {
		return cfg, fmt.Errorf("loading config file: %w", err)
	}
	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}
	if err := applyFlags(&cfg, fs); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "workweek.db")
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile() error {
	f, err := os.Open(c.ConfigFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	var file fileConfig
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("parsing %s: %w", c.ConfigFile, err)
	}

	c.DBPath = coalesce(c.DBPath, file.DBPath)
	c.Timezone = coalesce(c.Timezone, file.Timezone)
	c.IdleThreshold = coalesce(Duration{c.IdleThreshold}, file.IdleThreshold).Duration
	c.CheckInterval = coalesce(Duration{c.CheckInterval}, file.CheckInterval).Duration
	c.HighlightRatio = coalesce(c.HighlightRatio, file.HighlightRatio)
	c.Host = coalesce(c.Host, file.Host)
	c.Port = coalesce(c.Port, file.Port)
	c.WriteTimeout = coalesce(Duration{c.WriteTimeout}, file.WriteTimeout).Duration
	c.Notify = coalesce(c.Notify, file.Notify)
	c.LogLevel = coalesce(c.LogLevel, file.LogLevel)
	c.LogFormat = coalesce(c.LogFormat, file.LogFormat)
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("WORKWEEK_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("WORKWEEK_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("WORKWEEK_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("WORKWEEK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("WORKWEEK_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("WORKWEEK_IDLE_THRESHOLD"); v != "" {
		d, err := parseSecondsOrDuration(v)
		if err != nil {
			return fmt.Errorf("WORKWEEK_IDLE_THRESHOLD: %w", err)
		}
		c.IdleThreshold = d
	}
	if v := os.Getenv("WORKWEEK_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WORKWEEK_PORT: %w", err)
		}
		c.Port = p
	}
	if v := os.Getenv("WORKWEEK_NOTIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WORKWEEK_NOTIFY: %w", err)
		}
		c.Notify = b
	}
	return nil
}

// RegisterFlags registers the flags shared by every command on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to config.toml")
	fs.String("data-dir", "", "Data directory (default ~/.workweek)")
	fs.String("db", "", "SQLite database path")
	fs.String("tz", "", "IANA timezone used for ISO week boundaries (default UTC)")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	fs.String("log-format", "", "Log format: text or json")
}

// applyFlags copies explicitly-set flags from fs into cfg. Flags that are
// not registered on fs are ignored.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "db":
			cfg.DBPath = v
		case "tz":
			cfg.Timezone = v
		case "log-level":
			cfg.LogLevel = v
		case "log-format":
			cfg.LogFormat = v
		case "host":
			cfg.Host = v
		case "port":
			cfg.Port, err = strconv.Atoi(v)
		case "threshold":
			cfg.IdleThreshold, err = parseSecondsOrDuration(v)
		case "interval":
			cfg.CheckInterval, err = parseSecondsOrDuration(v)
		case "notify":
			cfg.Notify, err = strconv.ParseBool(v)
		case "highlight":
			cfg.HighlightRatio, err = strconv.ParseFloat(v, 64)
		}
		if err != nil {
			err = fmt.Errorf("flag --%s: %w", f.Name, err)
		}
	})
	return err
}

// Validate rejects settings the rest of the program cannot honour.
func (c Config) Validate() error {
	if c.IdleThreshold <= 0 {
		return fmt.Errorf("idle threshold must be positive, got %s", c.IdleThreshold)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive, got %s", c.CheckInterval)
	}
	if c.HighlightRatio < 0 || c.HighlightRatio > 1 {
		return fmt.Errorf("highlight ratio must be within [0, 1], got %g", c.HighlightRatio)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Location resolves Timezone, defaulting to UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "utc") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// parseSecondsOrDuration accepts "120" as seconds as well as "2m".
func parseSecondsOrDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// coalesce returns the first non-nil override, or fallback.
func coalesce[T any](fallback T, overrides ...*T) T {
	for _, p := range overrides {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// firstNonEmpty returns the first non-empty string from vals.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func flagString(fs *pflag.FlagSet, name string) string {
	if fs == nil {
		return ""
	}
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return ""
	}
	return f.Value.String()
}
