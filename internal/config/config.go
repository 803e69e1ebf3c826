package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the client. Values come from flags,
// FEEDSYNC_* environment variables and an optional YAML file, in that order
// of precedence.
type Config struct {
	ConfigFile kong.ConfigFlag `name:"config" help:"Load settings from a YAML file."`

	ServerURL string `name:"server-url" env:"FEEDSYNC_SERVER_URL" default:"http://localhost:8080" help:"Base URL of the feed service."`
	DBPath    string `name:"db-path" env:"FEEDSYNC_DB_PATH" default:"feedsync.db" help:"Path of the local subscription cache."`

	TimeUnit            time.Duration `name:"time-unit" env:"FEEDSYNC_TIME_UNIT" default:"1s" help:"Length of one watchdog time unit."`
	AddWatchdogUnits    int           `name:"add-watchdog-units" env:"FEEDSYNC_ADD_WATCHDOG_UNITS" default:"15" help:"Units before a pending add warns."`
	LoadWatchdogUnits   int           `name:"load-watchdog-units" env:"FEEDSYNC_LOAD_WATCHDOG_UNITS" default:"10" help:"Units before a pending feed load shows the slow overlay."`
	DeleteWatchdogUnits int           `name:"delete-watchdog-units" env:"FEEDSYNC_DELETE_WATCHDOG_UNITS" default:"10" help:"Units before a pending delete warns."`
	NotificationUnits   int           `name:"notification-units" env:"FEEDSYNC_NOTIFICATION_UNITS" default:"4" help:"Units a notification stays visible."`
	ExitTransition      time.Duration `name:"exit-transition" env:"FEEDSYNC_EXIT_TRANSITION" default:"300ms" help:"Duration of the removal transition of a deleted feed."`

	RequestTimeout    time.Duration `name:"request-timeout" env:"FEEDSYNC_REQUEST_TIMEOUT" default:"2m" help:"Hard cap on a single request to the feed service."`
	RequestsPerSecond float64       `name:"requests-per-second" env:"FEEDSYNC_REQUESTS_PER_SECOND" default:"5" help:"Client side request rate limit (0 disables)."`
	Burst             int           `name:"burst" env:"FEEDSYNC_BURST" default:"5" help:"Rate limiter burst size."`
	BreakerFailures   uint32        `name:"breaker-failures" env:"FEEDSYNC_BREAKER_FAILURES" default:"5" help:"Consecutive failures that open the circuit breaker."`
	BreakerTimeout    time.Duration `name:"breaker-timeout" env:"FEEDSYNC_BREAKER_TIMEOUT" default:"30s" help:"How long the circuit breaker stays open."`

	LogLevel string `name:"log-level" env:"FEEDSYNC_LOG_LEVEL" default:"off" enum:"debug,info,warn,error,off" help:"Log level (debug, info, warn, error, off)."`
	LogFile  string `name:"log-file" env:"FEEDSYNC_LOG_FILE" default:"feedsync.log" help:"File receiving log records."`
}

// Load parses args on top of the environment and the default config file
// ($XDG_CONFIG_HOME/feedsync/config.yaml or ~/.config/feedsync/config.yaml).
func Load(args []string) (Config, error) {
	var cfg Config

	options := []kong.Option{
		kong.Name("feedsync"),
		kong.Description("Terminal client for a feed aggregation service."),
		kong.Configuration(yamlKongLoader),
	}
	if path := defaultConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			options = append(options, kong.Configuration(yamlKongLoader, path))
		}
	}

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return Config{}, fmt.Errorf("build flag parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}

	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)
	cfg.LogFile = strings.TrimSpace(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("ServerURL is required")
	}
	if strings.HasSuffix(c.ServerURL, "/") {
		return fmt.Errorf("ServerURL must not end with '/': %s", c.ServerURL)
	}
	parsed, err := url.Parse(c.ServerURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("ServerURL must be an absolute http(s) URL: %s", c.ServerURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.TimeUnit <= 0 {
		return fmt.Errorf("TimeUnit must be positive: %s", c.TimeUnit)
	}
	for name, units := range map[string]int{
		"AddWatchdogUnits":    c.AddWatchdogUnits,
		"LoadWatchdogUnits":   c.LoadWatchdogUnits,
		"DeleteWatchdogUnits": c.DeleteWatchdogUnits,
		"NotificationUnits":   c.NotificationUnits,
	} {
		if units < 1 {
			return fmt.Errorf("%s must be at least 1: %d", name, units)
		}
	}
	if c.ExitTransition < 0 {
		return fmt.Errorf("ExitTransition must not be negative: %s", c.ExitTransition)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RequestTimeout must be positive: %s", c.RequestTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("RequestsPerSecond must not be negative: %g", c.RequestsPerSecond)
	}
	if c.Burst < 1 {
		return fmt.Errorf("Burst must be at least 1: %d", c.Burst)
	}
	if c.BreakerFailures < 1 {
		return errors.New("BreakerFailures must be at least 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn, error or off: %s", c.LogLevel)
	}
	if c.LogLevel != "off" && c.LogFile == "" {
		return errors.New("LogFile is required when logging is enabled")
	}
	return nil
}

func (c Config) AddWatchdog() time.Duration {
	return time.Duration(c.AddWatchdogUnits) * c.TimeUnit
}

func (c Config) LoadWatchdog() time.Duration {
	return time.Duration(c.LoadWatchdogUnits) * c.TimeUnit
}

func (c Config) DeleteWatchdog() time.Duration {
	return time.Duration(c.DeleteWatchdogUnits) * c.TimeUnit
}

func (c Config) NotificationTTL() time.Duration {
	return time.Duration(c.NotificationUnits) * c.TimeUnit
}

func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "feedsync", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "feedsync", "config.yaml")
}

func yamlKongLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml config: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			if v, ok := values[name]; ok {
				return v, nil
			}
		}
		return nil, nil
	}
	return f, nil
}
