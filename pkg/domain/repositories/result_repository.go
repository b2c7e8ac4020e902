package repositories

import "context"

// ResultTable is a processed table in canonical column order. Values are
// string, time.Time, decimal.Decimal, int64 or nil.
type ResultTable interface {
	Header() []string
	Rows() [][]any
}

// ResultRepository persists processed tables
type ResultRepository interface {
	SaveResults(ctx context.Context, runID string, table ResultTable) (int, error)
}
