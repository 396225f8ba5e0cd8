package recorder

import (
	"context"
	"fmt"
	"log/slog"

	"StonksPoller/internal/config"
	"StonksPoller/internal/model"
)

// Recorder appends batches to durable storage. Each call opens and closes its
// own connection to the target namespace.
type Recorder interface {
	Append(ctx context.Context, target model.Target, batch model.Batch) (int, error)
	Name() string
}

// New returns the Recorder for the configured driver.
func New(cfg config.DatabaseConfig, logger *slog.Logger) (Recorder, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresRecorder(cfg), nil
	case config.DriverSQLite:
		return NewSQLiteRecorder(cfg.SQLiteDir), nil
	case config.DriverNone:
		return NewNoopRecorder(logger), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
