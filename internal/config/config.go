package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"StonksPoller/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource DataSourceConfig `yaml:"data_source"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Target     TargetConfig     `yaml:"target"`
	Database   DatabaseConfig   `yaml:"database"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Log        LogConfig        `yaml:"log"`
	Proxy      string           `yaml:"proxy"`
}

// DataSourceConfig describes the quote API and the symbols polled from it.
type DataSourceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Host    string        `yaml:"host"`
	APIKey  string        `yaml:"api_key"`
	Symbols []string      `yaml:"symbols"`
	Pause   *time.Duration `yaml:"pause"` // nil = DefaultPause, 0 = no pause
	Timeout time.Duration `yaml:"timeout"` // 0 = no timeout
	Mock    bool          `yaml:"mock"`
}

// PauseDuration returns the configured pause, or DefaultPause when unset.
func (d DataSourceConfig) PauseDuration() time.Duration {
	if d.Pause == nil {
		return DefaultPause
	}
	return *d.Pause
}

// SymbolList returns the configured symbols, trimmed.
func (d DataSourceConfig) SymbolList() []model.Symbol {
	out := make([]model.Symbol, 0, len(d.Symbols))
	for _, s := range d.Symbols {
		out = append(out, model.Symbol(strings.TrimSpace(s)))
	}
	return out
}

// ScheduleConfig sets the delay between ticks. Spec, when set, is a cron
// expression or descriptor and takes precedence over Interval.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
	Spec     string        `yaml:"spec"`
}

// TargetConfig names the table rows are appended to.
type TargetConfig struct {
	Namespace string `yaml:"namespace"`
	Table     string `yaml:"table"`
}

// Target returns the storage target.
func (t TargetConfig) Target() model.Target {
	return model.Target{Namespace: t.Namespace, Table: t.Table}
}

// DatabaseConfig selects the storage driver and how to reach it.
// URL is a connection string whose database part is replaced by the namespace.
type DatabaseConfig struct {
	Driver    string `yaml:"driver"` // postgres, sqlite or none
	URL       string `yaml:"url"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	SSLMode   string `yaml:"sslmode"`
	SQLiteDir string `yaml:"sqlite_dir"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from a YAML file, expanding ${VAR} references, then
// applies environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config and validates it.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.DataSource.Symbols = splitList(v)
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse POLL_INTERVAL: %w", err)
		}
		c.Schedule.Interval = d
	}
	if v := os.Getenv("DB_CONNECTION_STRING"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("SQLITE_DIR"); v != "" {
		c.Database.SQLiteDir = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
