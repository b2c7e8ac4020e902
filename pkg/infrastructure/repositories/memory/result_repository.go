package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/riskbase/pkg/domain/repositories"
)

// SavedTable is a result table captured by ResultRepository
type SavedTable struct {
	RunID  string
	Header []string
	Rows   [][]any
}

// ResultRepository keeps saved result tables in memory
type ResultRepository struct {
	mu     sync.Mutex
	tables []SavedTable
}

// NewResultRepository creates a new in-memory result repository
func NewResultRepository() *ResultRepository {
	return &ResultRepository{}
}

// Verify interface compliance
var _ repositories.ResultRepository = (*ResultRepository)(nil)

// SaveResults stores a copy of the table under runID
func (r *ResultRepository) SaveResults(ctx context.Context, runID string, table repositories.ResultTable) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if runID == "" {
		return 0, fmt.Errorf("run id cannot be empty")
	}
	rows := table.Rows()
	saved := SavedTable{
		RunID:  runID,
		Header: append([]string(nil), table.Header()...),
		Rows:   make([][]any, len(rows)),
	}
	for i, row := range rows {
		saved.Rows[i] = append([]any(nil), row...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables = append(r.tables, saved)
	return len(rows), nil
}

// Tables returns every saved table in save order
func (r *ResultRepository) Tables() []SavedTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SavedTable(nil), r.tables...)
}
