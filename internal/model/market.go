package model

import (
	"sort"
	"time"
)

// DateLayout is the capture timestamp format used for the date column and in log output.
const DateLayout = "2006-01-02 15:04:05"

// Reserved column names added to every record.
const (
	ColumnSymbol = "symbol"
	ColumnDate   = "date"
)

// Symbol is a ticker such as "TSLA".
type Symbol string

// Record is one successful fetch: the source's fields plus the symbol and capture time.
type Record struct {
	Symbol Symbol
	Date   time.Time
	Fields map[string]any
}

// NewRecord copies fields so the record cannot change after creation.
// Source fields named "symbol" or "date" are shadowed by the record's own values.
func NewRecord(symbol Symbol, at time.Time, fields map[string]any) Record {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == ColumnSymbol || k == ColumnDate {
			continue
		}
		cp[k] = v
	}
	return Record{
		Symbol: symbol,
		Date:   at.Truncate(time.Second),
		Fields: cp,
	}
}

// Columns returns the source field names sorted, followed by symbol and date.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r.Fields)+2)
	for k := range r.Fields {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return append(cols, ColumnSymbol, ColumnDate)
}

// Value returns the value stored under column, or nil when the record lacks it.
func (r Record) Value(column string) any {
	switch column {
	case ColumnSymbol:
		return string(r.Symbol)
	case ColumnDate:
		return r.Date.Format(DateLayout)
	}
	return r.Fields[column]
}

// Batch is the ordered set of records captured during one tick.
type Batch []Record

// Len returns the number of rows.
func (b Batch) Len() int { return len(b) }

// Columns returns the union of all record columns in first-seen order.
func (b Batch) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range b {
		for _, c := range r.Columns() {
			if seen[c] {
				continue
			}
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}

// Symbols lists the symbol of each record in order.
func (b Batch) Symbols() []Symbol {
	out := make([]Symbol, len(b))
	for i, r := range b {
		out[i] = r.Symbol
	}
	return out
}

// Target names the append-only table a batch is written to.
type Target struct {
	Namespace string
	Table     string
}

func (t Target) String() string { return t.Namespace + "." + t.Table }
