package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL   = "https://realstonks.p.rapidapi.com"
	DefaultHost      = "realstonks.p.rapidapi.com"
	DefaultPause     = 500 * time.Millisecond
	DefaultInterval  = 60 * time.Second
	DefaultNamespace = "financialdata"
	DefaultTable     = "financial_data"
	DefaultDriver    = DriverPostgres
	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultSQLiteDir = "data"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// DefaultSymbols is polled when no symbols are configured.
var DefaultSymbols = []string{"TSLA", "MSFT", "SPOT", "UBER", "AAPL"}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = DefaultBaseURL
	}
	if c.DataSource.Host == "" {
		c.DataSource.Host = DefaultHost
	}
	if len(c.DataSource.Symbols) == 0 {
		c.DataSource.Symbols = append([]string(nil), DefaultSymbols...)
	}
	if c.DataSource.Pause == nil {
		pause := DefaultPause
		c.DataSource.Pause = &pause
	}

	if c.Schedule.Interval == 0 && c.Schedule.Spec == "" {
		c.Schedule.Interval = DefaultInterval
	}

	if c.Target.Namespace == "" {
		c.Target.Namespace = DefaultNamespace
	}
	if c.Target.Table == "" {
		c.Target.Table = DefaultTable
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.SQLiteDir == "" {
		c.Database.SQLiteDir = DefaultSQLiteDir
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
