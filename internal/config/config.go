// Package config handles configuration loading and validation for Chillax.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/flow"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/scanner"
)

const (
	// DefaultConfigFile is the default configuration file name (without extension).
	DefaultConfigFile = ".chillax"
	// DefaultConfigType is the default configuration file type.
	DefaultConfigType = "yaml"
	// EnvPrefix prefixes every environment override, e.g. CHILLAX_LOG_LEVEL.
	EnvPrefix = "CHILLAX"
)

// Config holds all configuration for Chillax.
type Config struct {
	// Project contains the default project location.
	Project ProjectConfig `mapstructure:"project" yaml:"project"`
	// Scan contains directory traversal settings.
	Scan ScanConfig `mapstructure:"scan" yaml:"scan"`
	// Flow contains flow diagram settings.
	Flow FlowConfig `mapstructure:"flow" yaml:"flow"`
	// Output contains result rendering settings.
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	// Log contains logger settings.
	Log LogConfig `mapstructure:"log" yaml:"log"`
	// Recent contains the recently opened projects store settings.
	Recent RecentConfig `mapstructure:"recent" yaml:"recent"`
	// Watch contains watch mode settings.
	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `mapstructure:"-" yaml:"-"`
}

// ProjectConfig holds the default project location.
type ProjectConfig struct {
	// Root is the directory analyzed when a command gets no path argument.
	Root string `mapstructure:"root" yaml:"root"`
}

// ScanConfig holds directory traversal settings.
type ScanConfig struct {
	// SkipDirs lists directory names never descended into. Names starting
	// with "." are always skipped.
	SkipDirs []string `mapstructure:"skip_dirs" yaml:"skip_dirs"`
	// Workers bounds parallel file extraction. Zero means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// FlowConfig holds flow diagram settings.
type FlowConfig struct {
	// Caps bounds the child statements rendered per construct.
	Caps flow.Caps `mapstructure:"caps" yaml:"caps"`
}

// OutputConfig holds result rendering settings.
type OutputConfig struct {
	// Format is json or yaml.
	Format string `mapstructure:"format" yaml:"format"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a logrus level name (debug, info, warn, error).
	Level string `mapstructure:"level" yaml:"level"`
	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// RecentConfig holds recently opened projects store settings.
type RecentConfig struct {
	// DBPath is the badger directory. Empty means ~/.chillax/recent.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
	// Limit is the number of entries kept.
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	// Debounce coalesces bursts of file events.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Load loads configuration from file, .env, environment variables and
// defaults. configFile overrides the default .chillax.yaml lookup.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigFile)
		v.SetConfigType(DefaultConfigType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{Root: "."},
		Scan:    ScanConfig{SkipDirs: append([]string(nil), scanner.DefaultSkipDirs...)},
		Flow:    FlowConfig{Caps: flow.DefaultCaps()},
		Output:  OutputConfig{Format: "json"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Recent:  RecentConfig{Limit: 10},
		Watch:   WatchConfig{Debounce: 300 * time.Millisecond},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("output format must be 'json' or 'yaml', got %q", c.Output.Format)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got %q", c.Log.Format)
	}

	caps := c.Flow.Caps
	for name, n := range map[string]int{
		"module":       caps.Module,
		"function":     caps.Function,
		"class":        caps.Class,
		"block":        caps.Block,
		"handlers":     caps.Handlers,
		"handler_body": caps.HandlerBody,
	} {
		if n < 0 {
			return fmt.Errorf("flow cap %s must not be negative, got %d", name, n)
		}
	}

	for i, d := range c.Scan.SkipDirs {
		if d == "" || strings.ContainsAny(d, `/\`) {
			return fmt.Errorf("scan skip_dirs %d: %q is not a directory name", i, d)
		}
	}

	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan workers must not be negative, got %d", c.Scan.Workers)
	}

	if c.Recent.Limit <= 0 {
		return fmt.Errorf("recent limit must be positive, got %d", c.Recent.Limit)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch debounce must be positive, got %s", c.Watch.Debounce)
	}

	return nil
}

// RecentDBPath returns the configured recent store directory, defaulting to
// ~/.chillax/recent.
func (c *Config) RecentDBPath() (string, error) {
	if c.Recent.DBPath != "" {
		return c.Recent.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".chillax", "recent"), nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("project.root", d.Project.Root)
	v.SetDefault("scan.skip_dirs", d.Scan.SkipDirs)
	v.SetDefault("scan.workers", d.Scan.Workers)

	v.SetDefault("flow.caps.module", d.Flow.Caps.Module)
	v.SetDefault("flow.caps.function", d.Flow.Caps.Function)
	v.SetDefault("flow.caps.class", d.Flow.Caps.Class)
	v.SetDefault("flow.caps.block", d.Flow.Caps.Block)
	v.SetDefault("flow.caps.handlers", d.Flow.Caps.Handlers)
	v.SetDefault("flow.caps.handler_body", d.Flow.Caps.HandlerBody)

	v.SetDefault("output.format", d.Output.Format)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("recent.db_path", "")
	v.SetDefault("recent.limit", d.Recent.Limit)

	v.SetDefault("watch.debounce", d.Watch.Debounce)
}
