package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/costwise/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config holds costwise settings.
type Config struct {
	DB              DBConfig         `yaml:"db" toml:"db"`
	Log             LogConfig        `yaml:"log" toml:"log"`
	Events          EventsConfig     `yaml:"events" toml:"events"`
	Estimation      EstimationConfig `yaml:"estimation" toml:"estimation"`
	ReferenceTables []ReferenceSeed  `yaml:"reference_tables" toml:"reference_tables"`
}

type DBConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url" toml:"nats_url"` // empty disables publishing
}

type EstimationConfig struct {
	// Parallelism bounds concurrent subtree aggregation; 0 uses GOMAXPROCS.
	Parallelism int `yaml:"parallelism" toml:"parallelism"`
}

// ReferenceSeed is a reference table entry applied at startup.
type ReferenceSeed struct {
	Table       string   `yaml:"table" toml:"table"`
	Code        string   `yaml:"code" toml:"code"`
	Description string   `yaml:"description" toml:"description"`
	Active      *bool    `yaml:"active" toml:"active"` // defaults to true
	Weight      *float64 `yaml:"weight" toml:"weight"`
}

// Item converts the seed into a domain reference item.
func (s ReferenceSeed) Item() *domain.ReferenceItem {
	active := true
	if s.Active != nil {
		active = *s.Active
	}
	return &domain.ReferenceItem{
		Table:       domain.ReferenceTable(s.Table),
		Code:        strings.ToUpper(strings.TrimSpace(s.Code)),
		Description: s.Description,
		Active:      active,
		Weight:      s.Weight,
	}
}

// DefaultDBPath returns ~/.costwise/costwise.db, falling back to the
// working directory when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "costwise.db"
	}
	return filepath.Join(home, ".costwise", "costwise.db")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB:  DBConfig{Path: DefaultDBPath()},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// Load builds the configuration from defaults, then the file at path (or
// COSTWISE_CONFIG when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("COSTWISE_CONFIG")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("COSTWISE_DB"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("COSTWISE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COSTWISE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("COSTWISE_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("COSTWISE_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COSTWISE_PARALLELISM: %w", err)
		}
		cfg.Estimation.Parallelism = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings and the reference seeds.
func (c Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Estimation.Parallelism < 0 {
		return fmt.Errorf("estimation.parallelism must not be negative, got %d", c.Estimation.Parallelism)
	}
	for i, seed := range c.ReferenceTables {
		if err := seed.Item().Validate(); err != nil {
			return fmt.Errorf("reference_tables[%d]: %w", i, err)
		}
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}
