// Package tabular decodes the raw monthly exports (xlsx or csv) into typed
// ledger and reference records, validating the expected column layout.
package tabular

import (
	"strings"

	"golang-ledger-summary-service/pkg/errors"
)

// Table is a decoded tabular dataset: a header row plus data rows, all as
// strings. Column lookup is case-insensitive.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string

	headerMap map[string]int
}

// NewTable builds a Table from raw headers and rows, trimming header
// whitespace and indexing columns.
func NewTable(name string, headers []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Headers: make([]string, len(headers)),
		Rows:    rows,
	}
	for i, h := range headers {
		t.Headers[i] = strings.TrimSpace(h)
	}
	t.buildHeaderMap()
	return t
}

func (t *Table) buildHeaderMap() {
	t.headerMap = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		key := strings.ToLower(h)
		if _, exists := t.headerMap[key]; !exists {
			t.headerMap[key] = i
		}
	}
}

// RenameHeaders rewrites header names according to the alias map. Keys are
// matched case-insensitively; unknown headers are left untouched.
func (t *Table) RenameHeaders(aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}
	lowered := make(map[string]string, len(aliases))
	for from, to := range aliases {
		lowered[strings.ToLower(strings.TrimSpace(from))] = to
	}
	for i, h := range t.Headers {
		if to, ok := lowered[strings.ToLower(h)]; ok {
			t.Headers[i] = to
		}
	}
	t.buildHeaderMap()
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.headerMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i
	}
	return -1
}

// RequireColumns fails with a schema error when any of the named columns is
// missing from the table.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if t.ColumnIndex(name) == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.SchemaError(t.Name, missing)
	}
	return nil
}

// Field returns the trimmed value of the named column in the given row.
// Rows shorter than the header (ragged xlsx exports) yield "".
func (t *Table) Field(row []string, column string) string {
	i := t.ColumnIndex(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// IsEmptyRow reports whether every cell in the row is blank.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
