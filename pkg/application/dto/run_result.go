package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table is a processed dataset in canonical column order. Cell values are
// string, time.Time, decimal.Decimal, int64 or nil.
type Table struct {
	Columns []string
	Data    [][]any
}

// Header returns the column names
func (t *Table) Header() []string {
	return t.Columns
}

// Rows returns the cell values, one slice per row
func (t *Table) Rows() [][]any {
	return t.Data
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Data)
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row i in the named column, or nil when the
// column is absent.
func (t *Table) Value(i int, column string) any {
	j := t.ColumnIndex(column)
	if j < 0 || j >= len(t.Data[i]) {
		return nil
	}
	return t.Data[i][j]
}

// FamilySummary describes how one brand family was processed
type FamilySummary struct {
	Family       string
	Rows         int
	SkippedSteps []string
	Lookups      int
	LookupHits   int
	ByRule       map[string]int
}

// ClassTotals aggregates rows sharing a risk class or segment.
type ClassTotals struct {
	Rows       int
	ValorDef   decimal.Decimal
	BaseRiesgo decimal.Decimal
	Provision  decimal.Decimal
}

// RunSummary aggregates a processed table for reporting
type RunSummary struct {
	Rows       int
	ByClass    map[string]*ClassTotals
	BySegment  map[string]*ClassTotals
	TotalValue decimal.Decimal
	TotalBase  decimal.Decimal
	TotalProv  decimal.Decimal
}

// RunResult contains the complete output of a processing run
type RunResult struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Table       *Table
	Families    []FamilySummary
	Summary     RunSummary
}

// Duration returns how long the run took
func (r *RunResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
