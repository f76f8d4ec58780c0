// Package table holds loaded tabular datasets and resolves player names to
// rows across their differing schemas.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Row maps column name to the raw cell value.
type Row map[string]string

// Get returns the trimmed cell value, or "" when the column is absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Has reports whether the row carries col with a non-blank value.
func (r Row) Has(col string) bool {
	return r.Get(col) != ""
}

// Float parses the cell as a number. Percent signs, thousands separators and
// leading plus signs are ignored. Blank, NaN and unparseable cells report
// false.
func (r Row) Float(col string) (float64, bool) {
	return ParseFloat(r[col])
}

// ParseFloat parses a loosely formatted numeric cell.
func ParseFloat(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	if s == "" || s == "-" || s == "--" {
		return 0, false
	}
	// Rate stats are often written without the leading zero (".812").
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Table is an ordered, read-only set of rows sharing one header.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row

	columns map[string]struct{}
}

// NewTable builds a table. Rows are used as given and must not be mutated
// afterwards.
func NewTable(name string, columns []string, rows []Row) *Table {
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return &Table{
		Name:    name,
		Columns: columns,
		Rows:    rows,
		columns: set,
	}
}

// HasColumn reports whether the header declares col.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	_, ok := t.columns[col]
	return ok
}

// FirstColumn returns the first of candidates present in the header.
func (t *Table) FirstColumn(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
