package entities

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column names as they appear in the inventory extract and in exports.
const (
	ColNegocioInventarios     = "NEGOCIO INVENTARIOS"
	ColAnioMes                = "AÑO NATURAL/MES"
	ColTipoMaterialInventario = "TIPO MATERIAL INVENTARIO"
	ColMarcaQM                = "MARCA DE QM"
	ColMaterial               = "MATERIAL"
	ColDescripcion            = "DESCRIPCIÓN"
	ColUnidadMedida           = "UNIDAD MEDIDA"
	ColCentro                 = "CENTRO"
	ColCodigoAlmacenCliente   = "CODIGO ALMACEN CLIENTE"
	ColIndicadorStockEspec    = "INDICADOR STOCK ESPEC."
	ColNumStockEsp            = "NÚM.STOCK.ESP."
	ColLote                   = "LOTE"
	ColCreadoEl               = "CREADO EL"
	ColFechFabricacion        = "FECH. FABRICACIÓN"
	ColFechCaducidad          = "FECH, CADUCIDAD/FECH PREF. CONSUMO"
	ColFechaBloqueado         = "FECHA BLOQUEADO"
	ColFechaObsoleto          = "FECHA OBSOLETO"
	ColFechaEntrada           = "FECHA ENTRADA"
	ColRangoObsoletoSrc       = "RANGO OBSOLETO 2"
	ColRangoCobertura         = "RANGO COBERTURA"
	ColRangoPermanencia       = "RANGO DE PERMANENCIA"
	ColRangoBloqueado         = "RANGO BLOQUEADO"
	ColRangoObsoleto          = "RANGO OBSOLETO"
	ColRangoVencidos          = "RANGO VENCIDOS"
	ColProximoAVencer         = "PRÓXIMO A VENCER"
	ColRangoProxVencerMM      = "RANGO PRÓX.VENCER MM"
	ColRangoProximosAVen      = "RANGO PRÓXIMOS A VEN"
	ColTipoMaterialI          = "TIPO DE MATERIAL (I)"
	ColCostoUnitarioReal      = "COSTO UNITARIO REAL"
	ColInventarioDisponible   = "INVENTARIO DISPONIBL"
	ColInventarioNoDisponible = "INVENTARIO NO DISPON"
	ColValorObsoleto          = "VALOR OBSOLETO"
	ColValorBloqueadoMM       = "VALOR BLOQUEADO MM"
	ColValorTotalMM           = "VALOR TOTAL MM"
	ColPermanencia            = "PERMANENCIA"

	ColMarcaConcat        = "MARCA CONCAT"
	ColSegmentacion       = "SEGMENTACION"
	ColSubsegmentacion    = "SUBSEGMENTACION"
	ColRangoPermanencia2  = "RANGO DE PERMANENCIA 2"
	ColStatusCons         = "STATUS CONS"
	ColValorDef           = "VALOR DEF"
	ColRangoObsolescencia = "RANGO OBSOLESCENCIA"
	ColRangoVencido2      = "RANGO VENCIDO 2"
	ColRangoBloqueado2    = "RANGO BLOQUEADO 2"
	ColRangoCons          = "RANGO CONS"
	ColTiempoBloqueo      = "TIEMPO BLOQUEO"
	ColFactorProv         = "FACTOR PROV"
	ColClasBaseRiesgo     = "CLAS BASE RIESGO"
	ColBaseRiesgo         = "BASE RIESGO"
	ColProvision          = "PROVISION"
)

// ColumnKind describes how a column is parsed and rendered.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindDate
	KindDecimal
	KindInteger
)

// Column binds a column name to the typed field that holds it.
type Column struct {
	Name    string
	Kind    ColumnKind
	Derived bool
	get     func(*InventoryRecord) any
	set     func(*InventoryRecord, string)
}

// Get returns the cell value: string, time.Time, decimal.Decimal, int64 or nil.
func (c Column) Get(r *InventoryRecord) any {
	return c.get(r)
}

// Set parses raw into the record. Unparseable values become null.
func (c Column) Set(r *InventoryRecord, raw string) {
	c.set(r, raw)
}

func nullText(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func textCol(name string, field func(*InventoryRecord) *sql.NullString) Column {
	return Column{
		Name: name,
		Kind: KindText,
		get: func(r *InventoryRecord) any {
			if f := field(r); f.Valid {
				return f.String
			}
			return nil
		},
		set: func(r *InventoryRecord, raw string) { *field(r) = nullText(raw) },
	}
}

func derivedText(name string, field func(*InventoryRecord) *sql.NullString) Column {
	c := textCol(name, field)
	c.Derived = true
	return c
}

func derivedString(name string, field func(*InventoryRecord) *string) Column {
	return Column{
		Name:    name,
		Kind:    KindText,
		Derived: true,
		get:     func(r *InventoryRecord) any { return *field(r) },
		set:     func(r *InventoryRecord, raw string) { *field(r) = raw },
	}
}

func dateCol(name string, field func(*InventoryRecord) *DateField) Column {
	return Column{
		Name: name,
		Kind: KindDate,
		get:  func(r *InventoryRecord) any { return field(r).Value() },
		set: func(r *InventoryRecord, raw string) {
			*field(r) = DateField{Raw: nullText(raw)}
		},
	}
}

func decimalCol(name string, derived bool, field func(*InventoryRecord) *decimal.NullDecimal) Column {
	return Column{
		Name:    name,
		Kind:    KindDecimal,
		Derived: derived,
		get: func(r *InventoryRecord) any {
			if f := field(r); f.Valid {
				return f.Decimal
			}
			return nil
		},
		set: func(r *InventoryRecord, raw string) {
			*field(r) = ParseDecimal(raw)
			r.notePlaceholder(name, raw)
		},
	}
}

// CanonicalColumns is the export order: identity, raw extract columns, then
// derived columns in the order the pipeline computes them.
var CanonicalColumns = []Column{
	textCol(ColNegocioInventarios, func(r *InventoryRecord) *sql.NullString { return &r.NegocioInventarios }),
	textCol(ColAnioMes, func(r *InventoryRecord) *sql.NullString { return &r.AnioMes }),
	textCol(ColTipoMaterialInventario, func(r *InventoryRecord) *sql.NullString { return &r.TipoMaterialInventario }),
	textCol(ColMarcaQM, func(r *InventoryRecord) *sql.NullString { return &r.MarcaQM }),
	textCol(ColMaterial, func(r *InventoryRecord) *sql.NullString { return &r.Material }),
	textCol(ColDescripcion, func(r *InventoryRecord) *sql.NullString { return &r.Descripcion }),
	textCol(ColUnidadMedida, func(r *InventoryRecord) *sql.NullString { return &r.UnidadMedida }),
	textCol(ColCentro, func(r *InventoryRecord) *sql.NullString { return &r.Centro }),
	textCol(ColCodigoAlmacenCliente, func(r *InventoryRecord) *sql.NullString { return &r.CodigoAlmacenCliente }),
	textCol(ColIndicadorStockEspec, func(r *InventoryRecord) *sql.NullString { return &r.IndicadorStockEspec }),
	textCol(ColNumStockEsp, func(r *InventoryRecord) *sql.NullString { return &r.NumStockEsp }),
	textCol(ColLote, func(r *InventoryRecord) *sql.NullString { return &r.Lote }),
	dateCol(ColCreadoEl, func(r *InventoryRecord) *DateField { return &r.CreadoEl }),
	dateCol(ColFechFabricacion, func(r *InventoryRecord) *DateField { return &r.FechFabricacion }),
	dateCol(ColFechCaducidad, func(r *InventoryRecord) *DateField { return &r.FechCaducidad }),
	dateCol(ColFechaBloqueado, func(r *InventoryRecord) *DateField { return &r.FechaBloqueado }),
	dateCol(ColFechaObsoleto, func(r *InventoryRecord) *DateField { return &r.FechaObsoleto }),
	dateCol(ColFechaEntrada, func(r *InventoryRecord) *DateField { return &r.FechaEntrada }),
	textCol(ColRangoObsoletoSrc, func(r *InventoryRecord) *sql.NullString { return &r.RangoObsoletoSrc }),
	textCol(ColRangoCobertura, func(r *InventoryRecord) *sql.NullString { return &r.RangoCobertura }),
	textCol(ColRangoPermanencia, func(r *InventoryRecord) *sql.NullString { return &r.RangoPermanencia }),
	textCol(ColRangoBloqueado, func(r *InventoryRecord) *sql.NullString { return &r.RangoBloqueado }),
	textCol(ColRangoObsoleto, func(r *InventoryRecord) *sql.NullString { return &r.RangoObsoleto }),
	textCol(ColRangoVencidos, func(r *InventoryRecord) *sql.NullString { return &r.RangoVencidos }),
	textCol(ColProximoAVencer, func(r *InventoryRecord) *sql.NullString { return &r.ProximoAVencer }),
	textCol(ColRangoProxVencerMM, func(r *InventoryRecord) *sql.NullString { return &r.RangoProxVencerMM }),
	textCol(ColRangoProximosAVen, func(r *InventoryRecord) *sql.NullString { return &r.RangoProximosAVen }),
	textCol(ColTipoMaterialI, func(r *InventoryRecord) *sql.NullString { return &r.TipoMaterialI }),
	decimalCol(ColCostoUnitarioReal, false, func(r *InventoryRecord) *decimal.NullDecimal { return &r.CostoUnitarioReal }),
	decimalCol(ColInventarioDisponible, false, func(r *InventoryRecord) *decimal.NullDecimal { return &r.InventarioDisponible }),
	decimalCol(ColInventarioNoDisponible, false, func(r *InventoryRecord) *decimal.NullDecimal { return &r.InventarioNoDisponible }),
	decimalCol(ColValorObsoleto, false, func(r *InventoryRecord) *decimal.NullDecimal { return &r.ValorObsoleto }),
	decimalCol(ColValorBloqueadoMM, false, func(r *InventoryRecord) *decimal.NullDecimal { return &r.ValorBloqueadoMM }),
	decimalCol(ColValorTotalMM, false, func(r *InventoryRecord) *decimal.NullDecimal { return &r.ValorTotalMM }),
	decimalCol(ColPermanencia, false, func(r *InventoryRecord) *decimal.NullDecimal { return &r.Permanencia }),

	derivedString(ColMarcaConcat, func(r *InventoryRecord) *string { return &r.MarcaConcat }),
	derivedString(ColSegmentacion, func(r *InventoryRecord) *string { return &r.Segmentacion }),
	derivedString(ColSubsegmentacion, func(r *InventoryRecord) *string { return &r.Subsegmentacion }),
	derivedText(ColRangoPermanencia2, func(r *InventoryRecord) *sql.NullString { return &r.RangoPermanencia2 }),
	{
		Name:    ColStatusCons,
		Kind:    KindText,
		Derived: true,
		get:     func(r *InventoryRecord) any { return string(r.StatusCons) },
		set:     func(r *InventoryRecord, raw string) { r.StatusCons = ConsumptionStatus(raw) },
	},
	decimalCol(ColValorDef, true, func(r *InventoryRecord) *decimal.NullDecimal { return &r.ValorDef }),
	derivedString(ColRangoObsolescencia, func(r *InventoryRecord) *string { return &r.RangoObsolescencia }),
	derivedString(ColRangoVencido2, func(r *InventoryRecord) *string { return &r.RangoVencido2 }),
	derivedString(ColRangoBloqueado2, func(r *InventoryRecord) *string { return &r.RangoBloqueado2 }),
	derivedText(ColRangoCons, func(r *InventoryRecord) *sql.NullString { return &r.RangoCons }),
	{
		Name:    ColTiempoBloqueo,
		Kind:    KindInteger,
		Derived: true,
		get:     func(r *InventoryRecord) any { return r.TiempoBloqueo },
		set: func(r *InventoryRecord, raw string) {
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				n = 0
			}
			r.TiempoBloqueo = n
		},
	},
	{
		Name:    ColFactorProv,
		Kind:    KindDecimal,
		Derived: true,
		get:     func(r *InventoryRecord) any { return r.FactorProv },
		set: func(r *InventoryRecord, raw string) {
			r.FactorProv = ParseDecimal(raw).Decimal
		},
	},
	{
		Name:    ColClasBaseRiesgo,
		Kind:    KindText,
		Derived: true,
		get:     func(r *InventoryRecord) any { return string(r.ClasBaseRiesgo) },
		set:     func(r *InventoryRecord, raw string) { r.ClasBaseRiesgo = RiskClass(raw) },
	},
	decimalCol(ColBaseRiesgo, true, func(r *InventoryRecord) *decimal.NullDecimal { return &r.BaseRiesgo }),
	decimalCol(ColProvision, true, func(r *InventoryRecord) *decimal.NullDecimal { return &r.Provision }),
}

var columnsByName = func() map[string]Column {
	m := make(map[string]Column, len(CanonicalColumns))
	for _, c := range CanonicalColumns {
		m[c.Name] = c
	}
	return m
}()

// LookupColumn finds a known column by name.
func LookupColumn(name string) (Column, bool) {
	c, ok := columnsByName[name]
	return c, ok
}

// CanonicalColumnNames returns the canonical export order as names.
func CanonicalColumnNames() []string {
	names := make([]string, len(CanonicalColumns))
	for i, c := range CanonicalColumns {
		names[i] = c.Name
	}
	return names
}
