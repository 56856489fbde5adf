package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete tradehub configuration
type Config struct {
	Myfxbook MyfxbookConfig `json:"myfxbook" yaml:"myfxbook"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// MyfxbookConfig contains the upstream API parameters
type MyfxbookConfig struct {
	BaseURL      string `json:"base_url" yaml:"base_url"`
	Session      string `json:"session,omitempty" yaml:"session,omitempty"`
	AccountID    string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	LookbackDays int    `json:"lookback_days" yaml:"lookback_days"`
	Timeout      string `json:"timeout" yaml:"timeout"` // e.g. "30s"
}

// MetricsConfig contains the metrics engine parameters
type MetricsConfig struct {
	WindowDays int    `json:"window_days" yaml:"window_days"`
	Timezone   string `json:"timezone" yaml:"timezone"` // broker time zone, IANA name
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DailyFile  string `json:"daily_file,omitempty" yaml:"daily_file,omitempty"`
}

// ServerConfig contains the HTTP API parameters
type ServerConfig struct {
	Port    int  `json:"port" yaml:"port"`
	DevMode bool `json:"dev_mode" yaml:"dev_mode"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// TimeoutDuration parses the timeout string; empty means zero.
func (m MyfxbookConfig) TimeoutDuration() (time.Duration, error) {
	if m.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(m.Timeout)
}

// Location loads the configured broker time zone; empty means UTC.
func (m MetricsConfig) Location() (*time.Location, error) {
	if m.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(m.Timezone)
}

// LoadFromFile loads configuration from a file (JSON or YAML) on top of
// the defaults, then applies environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load returns the file config when path is set, otherwise the defaults
// with environment overrides. A .env file in the working directory is
// read first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path != "" {
		return LoadFromFile(path)
	}

	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from MYFXBOOK_* and TRADEHUB_* variables.
func (c *Config) ApplyEnv() {
	c.Myfxbook.Session = getEnv("MYFXBOOK_SESSION", c.Myfxbook.Session)
	c.Myfxbook.AccountID = getEnv("MYFXBOOK_ACCOUNT", c.Myfxbook.AccountID)
	c.Myfxbook.BaseURL = getEnv("MYFXBOOK_URL", c.Myfxbook.BaseURL)
	c.Journal.DBPath = getEnv("TRADEHUB_DB", c.Journal.DBPath)
	c.Metrics.Timezone = getEnv("TRADEHUB_TIMEZONE", c.Metrics.Timezone)
	c.Metrics.WindowDays = getEnvAsInt("TRADEHUB_WINDOW_DAYS", c.Metrics.WindowDays)
	c.Server.Port = getEnvAsInt("TRADEHUB_PORT", c.Server.Port)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
// The session token is never written.
func (c *Config) SaveToFile(path string) error {
	out := *c
	out.Myfxbook.Session = ""

	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&out)
	default:
		data, err = json.MarshalIndent(&out, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Myfxbook.BaseURL == "" {
		return fmt.Errorf("myfxbook.base_url is required")
	}
	if c.Myfxbook.LookbackDays <= 0 {
		return fmt.Errorf("myfxbook.lookback_days must be positive")
	}
	if _, err := c.Myfxbook.TimeoutDuration(); err != nil {
		return fmt.Errorf("myfxbook.timeout: %w", err)
	}
	if c.Metrics.WindowDays <= 0 {
		return fmt.Errorf("metrics.window_days must be positive")
	}
	if _, err := c.Metrics.Location(); err != nil {
		return fmt.Errorf("metrics.timezone: %w", err)
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.DailyFile == "") {
		return fmt.Errorf("journal trades_file and daily_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Myfxbook: MyfxbookConfig{
			BaseURL:      "https://www.myfxbook.com/api",
			LookbackDays: 30,
			Timeout:      "30s",
		},
		Metrics: MetricsConfig{
			WindowDays: 5,
			Timezone:   "UTC",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradehub.sqlite",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
