package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if !c.DataSource.Mock && c.DataSource.APIKey == "" {
		return errors.New("data_source.api_key is required")
	}
	if len(c.DataSource.Symbols) == 0 {
		return errors.New("data_source.symbols must not be empty")
	}
	for i, s := range c.DataSource.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("data_source.symbols[%d] is empty", i)
		}
	}
	if c.DataSource.PauseDuration() < 0 {
		return errors.New("data_source.pause must be >= 0")
	}
	if c.DataSource.Timeout < 0 {
		return errors.New("data_source.timeout must be >= 0")
	}

	if c.Schedule.Spec != "" {
		if _, err := cron.ParseStandard(c.Schedule.Spec); err != nil {
			return fmt.Errorf("schedule.spec: %w", err)
		}
	} else if c.Schedule.Interval <= 0 {
		return errors.New("schedule.interval must be positive")
	}

	if c.Target.Namespace == "" {
		return errors.New("target.namespace is required")
	}
	if c.Target.Table == "" {
		return errors.New("target.table is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	switch db.Driver {
	case DriverPostgres:
		if db.URL != "" {
			return nil
		}
		if db.Host == "" {
			return fmt.Errorf("%s.host or %s.url is required", prefix, prefix)
		}
		if db.User == "" {
			return fmt.Errorf("%s.user is required", prefix)
		}
		if db.Port < 1 || db.Port > 65535 {
			return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
		}
	case DriverSQLite:
		if db.SQLiteDir == "" {
			return fmt.Errorf("%s.sqlite_dir is required", prefix)
		}
	case DriverNone:
	default:
		return fmt.Errorf("%s.driver must be postgres, sqlite or none, got %q", prefix, db.Driver)
	}
	return nil
}
