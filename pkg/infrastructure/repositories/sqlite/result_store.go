package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
)

// ResultChunkSize is the number of rows written between progress checks.
const ResultChunkSize = 1000

// Verify interface compliance
var _ repositories.ResultRepository = (*Store)(nil)

// SaveResults appends table to InventarioBaseRiesgo inside one transaction,
// tagging every row with runID. Columns must be known canonical columns;
// canonical columns missing from the table are stored as NULL.
func (s *Store) SaveResults(ctx context.Context, runID string, table repositories.ResultTable) (int, error) {
	if strings.TrimSpace(runID) == "" {
		return 0, fmt.Errorf("run id cannot be empty")
	}
	header := table.Header()
	cols := make([]string, 0, len(header)+2)
	for _, name := range header {
		if _, ok := entities.LookupColumn(name); !ok {
			return 0, fmt.Errorf("column %q is not part of %s", name, TableResults)
		}
		cols = append(cols, quoteIdent(name))
	}
	cols = append(cols, ColRunID, ColLoadedAt)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", TableResults, strings.Join(cols, ", "), placeholders)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare results insert: %w", err)
	}
	defer stmt.Close()

	loadedAt := time.Now().UTC()
	rows := table.Rows()
	args := make([]any, len(cols))
	for i, row := range rows {
		if i > 0 && i%ResultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			s.logger.Debug("results chunk written", zap.String("run_id", runID), zap.Int("rows", i))
		}
		if len(row) != len(header) {
			return 0, fmt.Errorf("results row %d: has %d values, header has %d", i+1, len(row), len(header))
		}
		for j, v := range row {
			args[j] = bindValue(v)
		}
		args[len(header)] = runID
		args[len(header)+1] = loadedAt
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("results row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit results: %w", err)
	}
	s.logger.Info("results saved", zap.String("table", TableResults), zap.String("run_id", runID), zap.Int("rows", len(rows)))
	return len(rows), nil
}

func bindValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(entities.DateLayout)
	default:
		return x
	}
}

// StoredResults is a result table read back from the database
type StoredResults struct {
	Columns []string
	Data    [][]any
	RunIDs  []string
}

// Header implements repositories.ResultTable
func (r *StoredResults) Header() []string { return r.Columns }

// Rows implements repositories.ResultTable
func (r *StoredResults) Rows() [][]any { return r.Data }

// LoadResults reads the saved rows of one AÑO NATURAL/MES period, in insert
// order, with canonical columns only.
func (s *Store) LoadResults(ctx context.Context, anioMes string) (*StoredResults, error) {
	names := entities.CanonicalColumnNames()
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = quoteIdent(n)
	}
	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ? ORDER BY id",
		strings.Join(cols, ", "), ColRunID, TableResults, quoteIdent(entities.ColAnioMes))

	rows, err := s.db.QueryContext(ctx, query, entities.NormalizeText(anioMes))
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	out := &StoredResults{Columns: names}
	seen := make(map[string]bool)
	raw := make([]any, len(names)+1)
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to read results row: %w", err)
		}
		row := make([]any, len(names))
		for i, c := range entities.CanonicalColumns {
			v, err := columnValue(c.Kind, raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			row[i] = v
		}
		out.Data = append(out.Data, row)

		if id, ok := raw[len(names)].(string); ok && !seen[id] {
			seen[id] = true
			out.RunIDs = append(out.RunIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return out, nil
}

// columnValue converts a driver value into the table value types.
func columnValue(kind entities.ColumnKind, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil, nil
	}
	switch kind {
	case entities.KindDecimal:
		switch x := v.(type) {
		case int64:
			return decimal.NewFromInt(x), nil
		case float64:
			return decimal.NewFromFloat(x), nil
		case string:
			return decimal.NewFromString(x)
		}
	case entities.KindInteger:
		if x, ok := v.(int64); ok {
			return x, nil
		}
	case entities.KindDate:
		if x, ok := v.(string); ok {
			if t, ok := entities.ParseDate(x); ok {
				return t, nil
			}
			return x, nil
		}
	case entities.KindText:
		if x, ok := v.(string); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("unexpected value %v (%T)", v, v)
}
