package entities

import (
	"database/sql"
	"fmt"
	"math/bits"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-first layout used by the inventory extract.
const DateLayout = "02/01/2006"

// EmptyPlaceholder is the marker the extract writes into cells that have no value.
const EmptyPlaceholder = "#"

// DateField keeps the text delivered by the extract next to its parsed value.
// Until Parse runs the field reports its raw text.
type DateField struct {
	Raw    sql.NullString
	Time   sql.NullTime
	Parsed bool
}

// Parse converts Raw into Time. Unparseable or missing text yields a null time.
func (d *DateField) Parse() {
	d.Parsed = true
	d.Time = sql.NullTime{}
	if !d.Raw.Valid {
		return
	}
	if t, ok := ParseDate(d.Raw.String); ok {
		d.Time = sql.NullTime{Time: t, Valid: true}
	}
}

// Value returns the parsed time, the raw text, or nil.
func (d DateField) Value() any {
	if d.Parsed {
		if d.Time.Valid {
			return d.Time.Time
		}
		return nil
	}
	if d.Raw.Valid {
		return d.Raw.String
	}
	return nil
}

// ParseDate parses a DD/MM/YYYY date, tolerating missing zero padding.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDecimal parses a numeric cell. Both "." and "," are accepted as the
// decimal separator. When both appear, or one repeats, the last separator is
// the decimal one and the others group thousands. Anything unparseable is null.
func ParseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" || s == EmptyPlaceholder {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(normalizeNumber(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func normalizeNumber(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	case dot >= 0 && comma >= 0:
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") > 1:
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// InventoryRecord is one row of the inventory cube: a material lot at a
// location for a given month, plus every column derived from it.
type InventoryRecord struct {
	NegocioInventarios     sql.NullString
	AnioMes                sql.NullString
	TipoMaterialInventario sql.NullString
	MarcaQM                sql.NullString
	Material               sql.NullString
	Descripcion            sql.NullString
	UnidadMedida           sql.NullString
	Centro                 sql.NullString
	CodigoAlmacenCliente   sql.NullString
	IndicadorStockEspec    sql.NullString
	NumStockEsp            sql.NullString
	Lote                   sql.NullString

	CreadoEl        DateField
	FechFabricacion DateField
	FechCaducidad   DateField
	FechaBloqueado  DateField
	FechaObsoleto   DateField
	FechaEntrada    DateField

	// Ranges computed upstream by the cube; consumed, never recomputed.
	RangoObsoletoSrc  sql.NullString
	RangoCobertura    sql.NullString
	RangoPermanencia  sql.NullString
	RangoBloqueado    sql.NullString
	RangoObsoleto     sql.NullString
	RangoVencidos     sql.NullString
	ProximoAVencer    sql.NullString
	RangoProxVencerMM sql.NullString
	RangoProximosAVen sql.NullString
	TipoMaterialI     sql.NullString

	CostoUnitarioReal      decimal.NullDecimal
	InventarioDisponible   decimal.NullDecimal
	InventarioNoDisponible decimal.NullDecimal
	ValorObsoleto          decimal.NullDecimal
	ValorBloqueadoMM       decimal.NullDecimal
	ValorTotalMM           decimal.NullDecimal
	Permanencia            decimal.NullDecimal

	// numeric cells delivered as "#", kept until placeholder cleanup
	placeholders placeholderSet

	// Derived columns, in pipeline order.
	MarcaConcat        string
	Segmentacion       string
	Subsegmentacion    string
	RangoPermanencia2  sql.NullString
	StatusCons         ConsumptionStatus
	ValorDef           decimal.NullDecimal
	RangoObsolescencia string
	RangoVencido2      string
	RangoBloqueado2    string
	RangoCons          sql.NullString
	TiempoBloqueo      int64
	FactorProv         decimal.Decimal
	ClasBaseRiesgo     RiskClass
	BaseRiesgo         decimal.NullDecimal
	Provision          decimal.NullDecimal
}

type placeholderSet uint8

var placeholderBits = map[string]placeholderSet{
	ColCostoUnitarioReal:      1 << 0,
	ColInventarioDisponible:   1 << 1,
	ColInventarioNoDisponible: 1 << 2,
	ColValorObsoleto:          1 << 3,
	ColValorBloqueadoMM:       1 << 4,
	ColValorTotalMM:           1 << 5,
	ColPermanencia:            1 << 6,
}

func (r *InventoryRecord) notePlaceholder(col, raw string) {
	bit := placeholderBits[col]
	if strings.TrimSpace(raw) == EmptyPlaceholder {
		r.placeholders |= bit
	} else {
		r.placeholders &^= bit
	}
}

// HasPlaceholder reports whether the numeric column col was delivered as
// "#" and placeholder cleanup has not run yet. The typed value is null.
func (r *InventoryRecord) HasPlaceholder(col string) bool {
	bit, ok := placeholderBits[col]
	return ok && r.placeholders&bit != 0
}

// Brand returns MARCA DE QM, or "" when it is missing.
func (r *InventoryRecord) Brand() string {
	return r.MarcaQM.String
}

// Dates returns the date columns in extract order.
func (r *InventoryRecord) Dates() []*DateField {
	return []*DateField{
		&r.FechaEntrada,
		&r.FechaObsoleto,
		&r.FechaBloqueado,
		&r.FechFabricacion,
		&r.CreadoEl,
		&r.FechCaducidad,
	}
}

// textFields lists every nullable text cell of the record.
func (r *InventoryRecord) textFields() []*sql.NullString {
	return []*sql.NullString{
		&r.NegocioInventarios, &r.AnioMes, &r.TipoMaterialInventario, &r.MarcaQM,
		&r.Material, &r.Descripcion, &r.UnidadMedida, &r.Centro,
		&r.CodigoAlmacenCliente, &r.IndicadorStockEspec, &r.NumStockEsp, &r.Lote,
		&r.CreadoEl.Raw, &r.FechFabricacion.Raw, &r.FechCaducidad.Raw,
		&r.FechaBloqueado.Raw, &r.FechaObsoleto.Raw, &r.FechaEntrada.Raw,
		&r.RangoObsoletoSrc, &r.RangoCobertura, &r.RangoPermanencia, &r.RangoBloqueado,
		&r.RangoObsoleto, &r.RangoVencidos, &r.ProximoAVencer, &r.RangoProxVencerMM,
		&r.RangoProximosAVen, &r.TipoMaterialI, &r.RangoPermanencia2, &r.RangoCons,
	}
}

// ClearPlaceholders nulls every text cell holding the "#" placeholder, drops
// the pending numeric placeholders and reports how many cells were cleared.
func (r *InventoryRecord) ClearPlaceholders() int {
	cleared := 0
	for _, f := range r.textFields() {
		if f.Valid && f.String == EmptyPlaceholder {
			*f = sql.NullString{}
			cleared++
		}
	}
	for _, s := range []*string{&r.MarcaConcat, &r.Segmentacion, &r.Subsegmentacion,
		&r.RangoObsolescencia, &r.RangoVencido2, &r.RangoBloqueado2} {
		if *s == EmptyPlaceholder {
			*s = ""
			cleared++
		}
	}
	cleared += bits.OnesCount8(uint8(r.placeholders))
	r.placeholders = 0
	return cleared
}

// Clone returns an independent copy of the record.
func (r *InventoryRecord) Clone() *InventoryRecord {
	c := *r
	return &c
}

// Dataset is a working table: the column names the upstream table carried
// (plus those added by the pipeline) and its typed rows.
type Dataset struct {
	Columns []string
	Records []*InventoryRecord
}

// NewDataset creates a validated Dataset
func NewDataset(columns []string, records []*InventoryRecord) (*Dataset, error) {
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("record %d is nil", i)
		}
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{Columns: cols, Records: records}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names in required that the dataset does not carry.
func (d *Dataset) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// AddColumn appends name to the column list unless it is already there.
func (d *Dataset) AddColumn(name string) {
	if !d.HasColumn(name) {
		d.Columns = append(d.Columns, name)
	}
}

// Clone deep-copies the dataset so derived columns never touch the source rows.
func (d *Dataset) Clone() *Dataset {
	cols := make([]string, len(d.Columns))
	copy(cols, d.Columns)
	recs := make([]*InventoryRecord, len(d.Records))
	for i, r := range d.Records {
		recs[i] = r.Clone()
	}
	return &Dataset{Columns: cols, Records: recs}
}
