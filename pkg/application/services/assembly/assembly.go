package assembly

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vsinha/riskbase/pkg/application/dto"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"go.uber.org/zap"
)

// ErrSchemaMismatch is returned when the result sets to be combined do not
// carry the same columns.
var ErrSchemaMismatch = errors.New("result sets do not share the same columns")

// SchemaMismatchError lists the columns carried by only one side.
type SchemaMismatchError struct {
	Left      string
	Right     string
	OnlyLeft  []string
	OnlyRight []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%v: only in %s [%s], only in %s [%s]",
		ErrSchemaMismatch,
		e.Left, strings.Join(e.OnlyLeft, ", "),
		e.Right, strings.Join(e.OnlyRight, ", "))
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// OtherBrand is the MARCA DE QM value that never carries a provision.
const OtherBrand = "OTRAS"

// RiskBase is 0 for BAJO rows and VALOR DEF otherwise.
func RiskBase(r *entities.InventoryRecord) decimal.NullDecimal {
	if r.ClasBaseRiesgo == entities.ClassLow {
		return decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	}
	return r.ValorDef
}

// Provision is 0 for OTRAS and VALOR DEF x FACTOR PROV otherwise.
func Provision(r *entities.InventoryRecord) decimal.NullDecimal {
	if r.Brand() == OtherBrand {
		return decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	}
	if !r.ValorDef.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: r.ValorDef.Decimal.Mul(r.FactorProv), Valid: true}
}

// Aggregate fills BASE RIESGO and PROVISION on every row.
func Aggregate(ds *entities.Dataset) {
	for _, r := range ds.Records {
		r.BaseRiesgo = RiskBase(r)
		r.Provision = Provision(r)
	}
	ds.AddColumn(entities.ColBaseRiesgo)
	ds.AddColumn(entities.ColProvision)
}

// Part is the processed result set of one brand family.
type Part struct {
	Name    string
	Dataset *entities.Dataset
}

func columnSet(cols []string) map[string]bool {
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[c] = true
	}
	return set
}

func difference(a, b map[string]bool) []string {
	var out []string
	for c := range a {
		if !b[c] {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Combine stacks the parts row-wise, first part first. Every part must carry
// the same set of columns; nothing is combined otherwise.
func Combine(parts ...Part) (*entities.Dataset, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("no result sets to combine")
	}
	first := parts[0]
	firstSet := columnSet(first.Dataset.Columns)

	total := 0
	for _, p := range parts {
		set := columnSet(p.Dataset.Columns)
		onlyFirst, onlyThis := difference(firstSet, set), difference(set, firstSet)
		if len(onlyFirst) > 0 || len(onlyThis) > 0 {
			return nil, &SchemaMismatchError{
				Left:      first.Name,
				Right:     p.Name,
				OnlyLeft:  onlyFirst,
				OnlyRight: onlyThis,
			}
		}
		total += p.Dataset.Len()
	}

	records := make([]*entities.InventoryRecord, 0, total)
	for _, p := range parts {
		records = append(records, p.Dataset.Records...)
	}
	return entities.NewDataset(first.Dataset.Columns, records)
}

// DedupeColumns renames repeated names with a numeric suffix: the second
// "X" becomes "X_1", the third "X_2".
func DedupeColumns(cols []string) []string {
	used := make(map[string]bool, len(cols))
	suffix := make(map[string]int, len(cols))
	out := make([]string, len(cols))
	for i, c := range cols {
		name := c
		for used[name] {
			suffix[c]++
			name = fmt.Sprintf("%s_%d", c, suffix[c])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// Reindex renders the dataset in canonical column order. Canonical columns
// the dataset does not carry are null; columns outside the canonical list
// are dropped.
func Reindex(ds *entities.Dataset) *dto.Table {
	present := columnSet(ds.Columns)
	table := &dto.Table{
		Columns: entities.CanonicalColumnNames(),
		Data:    make([][]any, ds.Len()),
	}
	for i, r := range ds.Records {
		row := make([]any, len(entities.CanonicalColumns))
		for j, col := range entities.CanonicalColumns {
			if present[col.Name] {
				row[j] = col.Get(r)
			}
		}
		table.Data[i] = row
	}
	return table
}

// Assembler joins the per-family result sets into the output table.
type Assembler struct {
	logger *zap.Logger
}

// NewAssembler creates an assembler
func NewAssembler(logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{logger: logger}
}

// Assemble combines the parts, renames duplicate column names and reindexes
// to the canonical order. A schema mismatch aborts before any row is built.
func (a *Assembler) Assemble(parts ...Part) (*dto.Table, error) {
	combined, err := Combine(parts...)
	if err != nil {
		return nil, fmt.Errorf("assembling result: %w", err)
	}

	deduped := DedupeColumns(combined.Columns)
	for i, c := range deduped {
		if c != combined.Columns[i] {
			a.logger.Warn("duplicate column renamed",
				zap.String("column", combined.Columns[i]),
				zap.String("renamed", c))
		}
	}
	combined.Columns = deduped

	canonical := columnSet(entities.CanonicalColumnNames())
	var dropped []string
	for _, c := range deduped {
		if !canonical[c] {
			dropped = append(dropped, c)
		}
	}
	if len(dropped) > 0 {
		a.logger.Info("non-canonical columns dropped", zap.Strings("columns", dropped))
	}

	return Reindex(combined), nil
}

// Summarize totals VALOR DEF, BASE RIESGO and PROVISION by risk class and
// segment.
func Summarize(t *dto.Table) dto.RunSummary {
	s := dto.RunSummary{
		Rows:      t.Len(),
		ByClass:   make(map[string]*dto.ClassTotals),
		BySegment: make(map[string]*dto.ClassTotals),
	}

	get := func(i int, col string) decimal.Decimal {
		if d, ok := t.Value(i, col).(decimal.Decimal); ok {
			return d
		}
		return decimal.Zero
	}
	bucket := func(m map[string]*dto.ClassTotals, key string) *dto.ClassTotals {
		ct, ok := m[key]
		if !ok {
			ct = &dto.ClassTotals{}
			m[key] = ct
		}
		return ct
	}

	for i := range t.Data {
		value, base, prov := get(i, entities.ColValorDef), get(i, entities.ColBaseRiesgo), get(i, entities.ColProvision)
		class, _ := t.Value(i, entities.ColClasBaseRiesgo).(string)
		segment, _ := t.Value(i, entities.ColSegmentacion).(string)

		for _, ct := range []*dto.ClassTotals{bucket(s.ByClass, class), bucket(s.BySegment, segment)} {
			ct.Rows++
			ct.ValorDef = ct.ValorDef.Add(value)
			ct.BaseRiesgo = ct.BaseRiesgo.Add(base)
			ct.Provision = ct.Provision.Add(prov)
		}
		s.TotalValue = s.TotalValue.Add(value)
		s.TotalBase = s.TotalBase.Add(base)
		s.TotalProv = s.TotalProv.Add(prov)
	}
	return s
}
