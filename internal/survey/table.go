// Package survey models tabular survey payloads: an in-memory table,
// cohort grouping, and free-text response extraction.
package survey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMalformedPayload indicates the headers/rows shape is unusable.
	ErrMalformedPayload = errors.New("invalid data format")
	// ErrCohortColumnNotFound indicates no header matches the cohort column.
	ErrCohortColumnNotFound = errors.New("cohort column not found")
)

// Table is an immutable in-memory survey table. Rows hold one value per
// header, positionally aligned.
type Table struct {
	Headers []string
	Rows    [][]string

	colIndex map[string]int
}

// NewTable builds a Table from headers and rows. Validation is strict:
// empty headers, duplicate headers, or any row whose arity differs from
// the header count reject the whole payload.
func NewTable(headers []string, rows [][]string) (*Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no headers", ErrMalformedPayload)
	}
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := colIndex[h]; dup {
			return nil, fmt.Errorf("%w: duplicate header %q", ErrMalformedPayload, h)
		}
		colIndex[h] = i
	}
	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrMalformedPayload, i, len(row), len(headers))
		}
	}
	return &Table{Headers: headers, Rows: rows, colIndex: colIndex}, nil
}

// Column returns the index of the named header, or -1 when absent.
func (t *Table) Column(name string) int {
	if i, ok := t.colIndex[name]; ok {
		return i
	}
	return -1
}

// DetectCohortColumn resolves the cohort column against the headers:
// an exact match on the configured name first, then the first header
// containing "cohort" case-insensitively.
func DetectCohortColumn(headers []string, configured string) (string, error) {
	for _, h := range headers {
		if h == configured {
			return h, nil
		}
	}
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), "cohort") {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrCohortColumnNotFound, configured)
}

// CohortGroup is the ordered subsequence of table rows sharing one
// cohort value.
type CohortGroup struct {
	Cohort string
	table  *Table
	rows   [][]string
}

// GroupByCohort partitions the table's rows by the value of the cohort
// column. Groups are ordered by cohort value ascending; rows inside a
// group keep their original order.
func GroupByCohort(t *Table, column string) ([]CohortGroup, error) {
	col := t.Column(column)
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", ErrCohortColumnNotFound, column)
	}
	byCohort := make(map[string][][]string)
	var order []string
	for _, row := range t.Rows {
		key := row[col]
		if _, seen := byCohort[key]; !seen {
			order = append(order, key)
		}
		byCohort[key] = append(byCohort[key], row)
	}
	sort.Strings(order)

	groups := make([]CohortGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, CohortGroup{Cohort: key, table: t, rows: byCohort[key]})
	}
	return groups, nil
}

// Len reports the number of rows in the group.
func (g CohortGroup) Len() int { return len(g.rows) }

// Responses extracts the non-empty values of the named column in row
// order. An absent column or zero qualifying values yields an empty
// slice; downstream stages treat that as "nothing to summarize".
func (g CohortGroup) Responses(column string) []string {
	col := g.table.Column(column)
	if col < 0 {
		return nil
	}
	var out []string
	for _, row := range g.rows {
		if v := strings.TrimSpace(row[col]); v != "" {
			out = append(out, v)
		}
	}
	return out
}
