package recorder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"StonksPoller/internal/config"
	"StonksPoller/internal/model"
)

var postgresDialect = dialect{
	quote:       func(name string) string { return pgx.Identifier{name}.Sanitize() },
	placeholder: func(i int) string { return fmt.Sprintf("$%d", i) },
	types: map[kind]string{
		kindText:  "TEXT",
		kindInt:   "BIGINT",
		kindFloat: "DOUBLE PRECISION",
		kindBool:  "BOOLEAN",
	},
}

// PostgresRecorder connects to the namespace's database for every append.
type PostgresRecorder struct {
	cfg config.DatabaseConfig
}

func NewPostgresRecorder(cfg config.DatabaseConfig) *PostgresRecorder {
	return &PostgresRecorder{cfg: cfg}
}

func (r *PostgresRecorder) Name() string { return "postgres" }

func (r *PostgresRecorder) Append(ctx context.Context, target model.Target, batch model.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	conn, err := pgx.Connect(ctx, BuildConnString(r.cfg, target.Namespace))
	if err != nil {
		return 0, fmt.Errorf("connect %s: %w", target.Namespace, err)
	}
	defer conn.Close(context.WithoutCancel(ctx))

	cols := inferColumns(batch)
	if _, err := conn.Exec(ctx, postgresDialect.createTable(target.Table, cols)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", target.Table, err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	insert := postgresDialect.insert(target.Table, cols)
	b := &pgx.Batch{}
	for _, rec := range batch {
		b.Queue(insert, rowValues(rec, cols)...)
	}

	results := tx.SendBatch(ctx, b)
	for i, rec := range batch {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("insert row %d (%s): %w", i, rec.Symbol, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(batch), nil
}
