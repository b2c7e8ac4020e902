// Package tabular converts between raw sheets of text cells and the typed
// inventory and policy records. File formats (CSV, xlsx) and the SQL store
// all go through it so that every source is normalised the same way.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
)

// Sheet is a header row plus data rows of raw cells.
type Sheet struct {
	Header []string
	Rows   [][]string
}

type decodeOptions struct {
	logger *zap.Logger
}

// DecodeOption configures DecodeInventory
type DecodeOption func(*decodeOptions)

// WithLogger reports numeric cells that could not be parsed at Debug level.
func WithLogger(logger *zap.Logger) DecodeOption {
	return func(o *decodeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// DecodeInventory builds a dataset from a sheet. Header names are matched
// after normalisation; unknown columns are listed in the dataset but hold no
// values. When a header repeats, the first occurrence supplies the value.
// Numeric cells that do not parse are loaded as null.
func DecodeInventory(s Sheet, opts ...DecodeOption) (*entities.Dataset, error) {
	o := decodeOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if len(s.Header) == 0 {
		return nil, fmt.Errorf("sheet has no header row")
	}

	header := make([]string, len(s.Header))
	bindings := make([]*entities.Column, len(s.Header))
	bound := make(map[string]bool)
	for i, h := range s.Header {
		name := entities.NormalizeText(strings.TrimPrefix(h, "\ufeff"))
		header[i] = name
		if bound[name] {
			continue
		}
		if col, ok := entities.LookupColumn(name); ok {
			bindings[i] = &col
			bound[name] = true
		}
	}

	records := make([]*entities.InventoryRecord, 0, len(s.Rows))
	for n, row := range s.Rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d: has %d cells, header has %d", n+2, len(row), len(header))
		}
		r := &entities.InventoryRecord{}
		for i, cell := range row {
			col := bindings[i]
			if col == nil {
				continue
			}
			v := entities.NormalizeText(cell)
			col.Set(r, v)
			if col.Kind == entities.KindDecimal && v != "" && v != entities.EmptyPlaceholder && col.Get(r) == nil {
				o.logger.Debug("unparseable numeric cell",
					zap.Int("row", n+2),
					zap.String("column", col.Name),
					zap.String("value", v))
			}
		}
		records = append(records, r)
	}

	return entities.NewDataset(header, records)
}

// FormatCell renders a table value as text: dates as DD/MM/YYYY, decimals
// without exponent, nil as an empty cell.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(entities.DateLayout)
	case decimal.Decimal:
		return x.String()
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// EncodeTable renders a result table as text cells.
func EncodeTable(t repositories.ResultTable) Sheet {
	rows := t.Rows()
	s := Sheet{
		Header: append([]string(nil), t.Header()...),
		Rows:   make([][]string, len(rows)),
	}
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatCell(v)
		}
		s.Rows[i] = cells
	}
	return s
}
