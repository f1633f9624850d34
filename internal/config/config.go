// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/j-veylop/laborlog-tui/internal/store"
)

// Config holds the application configuration.
type Config struct {
	StoreBackend     string
	StorePath        string
	LogPath          string
	LogLevel         string
	LiveTickInterval time.Duration
	NotifyTransition bool
}

// Flags holds command-line switches that are not configuration.
type Flags struct {
	Help    bool
	Version bool
}

// Default values
const (
	defaultLiveTickInterval = time.Second
	defaultLogLevel         = "info"
	appDirName              = "laborlog"
)

// Load reads configuration from .env files, environment variables and
// finally command-line flags (highest precedence).
func Load(args []string) (*Config, Flags, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		StoreBackend:     getEnvString("STORE_BACKEND", store.BackendSQLite),
		StorePath:        getEnvString("STORE_PATH", ""),
		LogPath:          getEnvString("LOG_PATH", filepath.Join(getDefaultDir(), "laborlog.log")),
		LogLevel:         getEnvString("LOG_LEVEL", defaultLogLevel),
		LiveTickInterval: getEnvDuration("LIVE_TICK_INTERVAL", defaultLiveTickInterval),
		NotifyTransition: getEnvBool("NOTIFY_TRANSITION", true),
	}

	flags, err := cfg.parseFlags(args)
	if err != nil {
		return nil, flags, err
	}
	if flags.Help || flags.Version {
		return cfg, flags, nil
	}

	if err := cfg.validate(); err != nil {
		return nil, flags, err
	}

	if cfg.StoreBackend != store.BackendMemory {
		if err := ensureDir(filepath.Dir(cfg.StorePath)); err != nil {
			return nil, flags, err
		}
	}

	return cfg, flags, nil
}

// FlagSet returns the command-line flags bound to cfg and flags.
func (c *Config) FlagSet(flags *Flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("llt", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&c.StoreBackend, "backend", "b", c.StoreBackend, "store backend: sqlite, json or memory")
	fs.StringVarP(&c.StorePath, "store", "s", c.StorePath, "store file path")
	fs.StringVar(&c.LogPath, "log", c.LogPath, "log file path (empty disables file logging)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.DurationVar(&c.LiveTickInterval, "tick", c.LiveTickInterval, "live timer refresh interval")
	fs.BoolVar(&c.NotifyTransition, "notify", c.NotifyTransition, "desktop notification on transition-phase intervals")
	fs.BoolVarP(&flags.Help, "help", "h", false, "show this help message")
	fs.BoolVarP(&flags.Version, "version", "v", false, "show version information")

	return fs
}

func (c *Config) parseFlags(args []string) (Flags, error) {
	var flags Flags
	fs := c.FlagSet(&flags)
	if err := fs.Parse(args); err != nil {
		return flags, fmt.Errorf("invalid arguments: %w", err)
	}
	return flags, nil
}

// validate normalizes the backend and fills in the default store path.
func (c *Config) validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))

	switch c.StoreBackend {
	case store.BackendSQLite, store.BackendJSON, store.BackendMemory:
	default:
		return fmt.Errorf("%w: %q", store.ErrUnknownBackend, c.StoreBackend)
	}

	if c.StorePath == "" {
		c.StorePath = getDefaultStorePath(c.StoreBackend)
	}

	if c.LiveTickInterval <= 0 {
		c.LiveTickInterval = defaultLiveTickInterval
	}

	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDirName, ".env"))
	}

	return paths
}

// getDefaultDir returns the directory holding the store and log files.
func getDefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDirName)
}

// getDefaultStorePath returns the default store file for a backend.
func getDefaultStorePath(backend string) string {
	name := "laborlog.db"
	if backend == store.BackendJSON {
		name = "laborlog.json"
	}
	return filepath.Join(getDefaultDir(), name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
