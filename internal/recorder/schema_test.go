package recorder

import (
	"encoding/json"
	"testing"
	"time"

	"StonksPoller/internal/model"
)

func TestInferColumns(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local)
	batch := model.Batch{
		model.NewRecord("TSLA", now, map[string]any{
			"price":    json.Number("250"),
			"volume":   json.Number("1200"),
			"open":     true,
			"exchange": "NASDAQ",
			"extra":    nil,
		}),
		model.NewRecord("AAPL", now, map[string]any{
			"price":    json.Number("180.25"),
			"volume":   "1.2M",
			"exchange": "NASDAQ",
			"meta":     map[string]any{"a": 1},
		}),
	}

	got := map[string]kind{}
	for _, c := range inferColumns(batch) {
		got[c.Name] = c.Kind
	}

	want := map[string]kind{
		"price":    kindFloat,
		"volume":   kindText,
		"open":     kindBool,
		"exchange": kindText,
		"extra":    kindText,
		"meta":     kindText,
		"symbol":   kindText,
		"date":     kindText,
	}
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for name, k := range want {
		if got[name] != k {
			t.Errorf("column %s kind = %v, want %v", name, got[name], k)
		}
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		v    any
		k    kind
		want any
	}{
		{"nil", nil, kindFloat, nil},
		{"number to int", json.Number("42"), kindInt, int64(42)},
		{"int number to float", json.Number("42"), kindFloat, float64(42)},
		{"go int to float", 7, kindFloat, float64(7)},
		{"number to text", json.Number("1.5"), kindText, "1.5"},
		{"bool", true, kindBool, true},
		{"map to text", map[string]any{"a": "b"}, kindText, `{"a":"b"}`},
		{"slice to text", []any{"x", "y"}, kindText, `["x","y"]`},
		{"float to text", 2.5, kindText, "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerce(tt.v, tt.k); got != tt.want {
				t.Errorf("coerce(%v) = %#v, want %#v", tt.v, got, tt.want)
			}
		})
	}
}

func TestDialectStatements(t *testing.T) {
	cols := []column{{Name: "price", Kind: kindFloat}, {Name: `we"ird`, Kind: kindText}}

	if got, want := sqliteDialect.createTable("financial_data", cols),
		`CREATE TABLE IF NOT EXISTS "financial_data" ("price" REAL, "we""ird" TEXT)`; got != want {
		t.Errorf("sqlite create = %q, want %q", got, want)
	}
	if got, want := sqliteDialect.insert("financial_data", cols),
		`INSERT INTO "financial_data" ("price", "we""ird") VALUES (?, ?)`; got != want {
		t.Errorf("sqlite insert = %q, want %q", got, want)
	}
	if got, want := postgresDialect.createTable("financial_data", cols),
		`CREATE TABLE IF NOT EXISTS "financial_data" ("price" DOUBLE PRECISION, "we""ird" TEXT)`; got != want {
		t.Errorf("postgres create = %q, want %q", got, want)
	}
	if got, want := postgresDialect.insert("financial_data", cols),
		`INSERT INTO "financial_data" ("price", "we""ird") VALUES ($1, $2)`; got != want {
		t.Errorf("postgres insert = %q, want %q", got, want)
	}
}
