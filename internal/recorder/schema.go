package recorder

import (
	"encoding/json"
	"fmt"
	"strings"

	"StonksPoller/internal/model"
)

type kind int

const (
	kindText kind = iota
	kindInt
	kindFloat
	kindBool
)

type column struct {
	Name string
	Kind kind
}

// inferColumns derives a table schema from the union of the batch's columns.
// A column whose values disagree widens int+float to float and anything else to text.
func inferColumns(batch model.Batch) []column {
	names := batch.Columns()
	cols := make([]column, len(names))
	for i, name := range names {
		known := false
		k := kindText
		for _, r := range batch {
			vk, ok := kindOf(r.Value(name))
			if !ok {
				continue
			}
			if !known {
				k, known = vk, true
				continue
			}
			k = widen(k, vk)
		}
		cols[i] = column{Name: name, Kind: k}
	}
	return cols
}

// kindOf reports false for nil, which carries no type information.
func kindOf(v any) (kind, bool) {
	switch n := v.(type) {
	case nil:
		return kindText, false
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return kindInt, true
		}
		if _, err := n.Float64(); err == nil {
			return kindFloat, true
		}
		return kindText, true
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return kindInt, true
	case float32, float64:
		return kindFloat, true
	case bool:
		return kindBool, true
	default:
		return kindText, true
	}
}

func widen(a, b kind) kind {
	switch {
	case a == b:
		return a
	case (a == kindInt && b == kindFloat) || (a == kindFloat && b == kindInt):
		return kindFloat
	default:
		return kindText
	}
}

// coerce converts v to the Go type bound for a column of kind k.
func coerce(v any, k kind) any {
	if v == nil {
		return nil
	}
	switch k {
	case kindInt:
		switch n := v.(type) {
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i
			}
		case int:
			return int64(n)
		case int8:
			return int64(n)
		case int16:
			return int64(n)
		case int32:
			return int64(n)
		case int64:
			return n
		case uint8:
			return int64(n)
		case uint16:
			return int64(n)
		case uint32:
			return int64(n)
		}
	case kindFloat:
		switch n := v.(type) {
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f
			}
		case float64:
			return n
		case float32:
			return float64(n)
		default:
			if i, ok := coerce(v, kindInt).(int64); ok {
				return float64(i)
			}
		}
	case kindBool:
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return textValue(v)
}

func textValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case map[string]any, []any:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(b)
	default:
		return fmt.Sprint(s)
	}
}

func rowValues(r model.Record, cols []column) []any {
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = coerce(r.Value(c.Name), c.Kind)
	}
	return vals
}

// dialect holds the SQL differences between storage drivers.
type dialect struct {
	quote       func(string) string
	placeholder func(int) string
	types       map[kind]string
}

func (d dialect) createTable(table string, cols []column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = d.quote(c.Name) + " " + d.types[c.Kind]
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.quote(table), strings.Join(defs, ", "))
}

func (d dialect) insert(table string, cols []column) string {
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		names[i] = d.quote(c.Name)
		params[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quote(table), strings.Join(names, ", "), strings.Join(params, ", "))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
