package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"StonksPoller/internal/model"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	quote:       quoteIdent,
	placeholder: func(int) string { return "?" },
	types: map[kind]string{
		kindText:  "TEXT",
		kindInt:   "INTEGER",
		kindFloat: "REAL",
		kindBool:  "INTEGER",
	},
}

// SQLiteRecorder keeps one database file per namespace under Dir.
type SQLiteRecorder struct {
	Dir string
}

func NewSQLiteRecorder(dir string) *SQLiteRecorder {
	return &SQLiteRecorder{Dir: dir}
}

func (r *SQLiteRecorder) Name() string { return "sqlite" }

// Path returns the database file backing namespace.
func (r *SQLiteRecorder) Path(namespace string) string {
	return filepath.Join(r.Dir, namespace+".db")
}

func (r *SQLiteRecorder) Append(ctx context.Context, target model.Target, batch model.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	db, err := sql.Open("sqlite", r.Path(target.Namespace))
	if err != nil {
		return 0, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	// One connection so the pragmas apply to the transaction below.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return 0, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	cols := inferColumns(batch)
	if _, err := db.ExecContext(ctx, sqliteDialect.createTable(target.Table, cols)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", target.Table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteDialect.insert(target.Table, cols))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range batch {
		if _, err := stmt.ExecContext(ctx, rowValues(rec, cols)...); err != nil {
			return 0, fmt.Errorf("insert row %d (%s): %w", i, rec.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(batch), nil
}
