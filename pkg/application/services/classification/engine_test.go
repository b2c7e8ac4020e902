package classification

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsinha/riskbase/pkg/application/services/shared"
	"github.com/vsinha/riskbase/pkg/domain/entities"
)

func str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func num(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func row(mods ...func(*entities.InventoryRecord)) *entities.InventoryRecord {
	r := &entities.InventoryRecord{
		MarcaQM:             str("AVON"),
		NegocioInventarios:  str("PT"),
		IndicadorStockEspec: str("SIN ASIGNAR"),
		Permanencia:         num(400),
		TipoMaterialI:       str("PRODUCTO TERMINADO"),
		RangoCobertura:      str("3.COB > 6 MESES"),
		RangoPermanencia2:   str("5.ENTRE 360 Y 540 DIAS"),
		Segmentacion:        "EXPERTOS LOCALES",
		Subsegmentacion:     "FULL",
		StatusCons:          entities.StatusAvailable,
		TiempoBloqueo:       0,
	}
	for _, m := range mods {
		m(r)
	}
	return r
}

func testEntries(t *testing.T) []*entities.MatrixEntry {
	t.Helper()
	specs := []struct {
		key     string
		percent int64
		class   string
		tipo    string
	}{
		{"FPTVENCIDO7.MAYOR DE 720 DIAS", 100, "MUY ALTO", "AVON NATURA"},
		{"PTOBSOLETO2.ENTRE 90 Y 180 DIAS", 30, "MEDIO", "AVON NATURA"},
		{"3.COB > 6 MESES5.ENTRE 360 Y 540 DIAS", 10, "BAJO", "AVON NATURA"},
		// same string in another subset must not leak into AVON/NATURA
		{"PTBLOQUEADO1.MENOR DE 90 DIAS", 90, "ALTO", "STOCK W"},
		{"EXPERTOS LOCALESVENCIDO5.ENTRE 360 Y 540 DIAS", 60, "ALTO", "STOCK W"},
		{"EXPERTOS LOCALES3.COB > 6 MESES5.ENTRE 360 Y 540 DIAS", 40, "MEDIO", "STOCK W"},
		{"EXPERTOS LOCALESOBSOLETO7.MAYOR DE 720 DIAS", 100, "MUY ALTO", "STOCK W"},
		{"EXPERTOS LOCALESFULL1.COB < 3 MESES5.ENTRE 360 Y 540 DIAS", 25, "MEDIO", "PAV"},
		{"EXPERTOS LOCALESFULL3.COB > 6 MESES5.ENTRE 360 Y 540 DIAS", 15, "BAJO", "DISPONIBLE"},
		{"EXPERTOS LOCALESFULLDISPONIBLE 6.ENTRE 540 Y 720 DIAS", 50, "ALTO", "OBSOLETO BLOQUEADO VENCIDO"},
		{"EXPERTOS LOCALESFULLBLOQUEADO 3.ENTRE 180 Y 270 DIAS", 70, "ALTO", "OBSOLETO BLOQUEADO VENCIDO"},
	}

	entries := make([]*entities.MatrixEntry, 0, len(specs))
	for i, s := range specs {
		e, err := entities.NewMatrixEntry(int64(i+1), s.key, "", "", decimal.NewFromInt(s.percent), s.class, s.tipo)
		require.NoError(t, err)
		entries = append(entries, e)
	}
	return entries
}

func testEngine(t *testing.T) *Engine {
	return NewEngine(shared.NewMatrixIndex(testEntries(t)), entities.DefaultPolicySubsets())
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, FamilyAvonNatura, FamilyOf("AVON"))
	assert.Equal(t, FamilyAvonNatura, FamilyOf(" natura"))
	assert.Equal(t, FamilyOtherBrands, FamilyOf("AMAZON"))
	assert.Equal(t, FamilyOtherBrands, FamilyOf(""))
	assert.Equal(t, "AVON_NATURA", FamilyAvonNatura.String())
}

func TestClassifyAvonNatura(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name     string
		row      *entities.InventoryRecord
		rule     string
		expected entities.Classification
	}{
		{
			name: "own_brand_short_block",
			row: row(func(r *entities.InventoryRecord) {
				r.Segmentacion = "MARCAS PROPIAS"
				r.StatusCons = entities.StatusBlocked
				r.TiempoBloqueo = 30
			}),
			rule:     "AN1",
			expected: entities.DefaultClassification,
		},
		{
			name: "bulk_short_permanence",
			row: row(func(r *entities.InventoryRecord) {
				r.TipoMaterialI = str("GRANEL")
				r.Permanencia = num(12)
				r.StatusCons = entities.StatusNearExpiry
			}),
			rule:     "AN2",
			expected: entities.DefaultClassification,
		},
		{
			name: "fpt_lookup_hit",
			row: row(func(r *entities.InventoryRecord) {
				r.NegocioInventarios = str("FPT")
				r.StatusCons = entities.StatusExpired
				r.RangoCons = str(" 7.MAYOR DE 720 DIAS ")
			}),
			rule:     "AN3",
			expected: entities.NewClassification(1, entities.ClassVeryHigh),
		},
		{
			name: "fpt_lookup_miss_stops_cascade",
			row: row(func(r *entities.InventoryRecord) {
				r.NegocioInventarios = str("FPT")
				r.StatusCons = entities.StatusObsolete
				r.RangoCons = str("7.MAYOR DE 720 DIAS")
			}),
			rule:     "AN3",
			expected: entities.DefaultClassification,
		},
		{
			name: "aged_stock_lookup",
			row: row(func(r *entities.InventoryRecord) {
				r.StatusCons = entities.StatusObsolete
				r.RangoCons = str("2.ENTRE 90 Y 180 DIAS")
			}),
			rule:     "AN4",
			expected: entities.NewClassification(0.3, entities.ClassMedium),
		},
		{
			name: "key_from_other_subset_is_ignored",
			row: row(func(r *entities.InventoryRecord) {
				r.StatusCons = entities.StatusBlocked
				r.TiempoBloqueo = 200
				r.RangoCons = str("1.MENOR DE 90 DIAS")
			}),
			rule:     "AN4",
			expected: entities.DefaultClassification,
		},
		{
			name:     "available_coverage_lookup",
			row:      row(),
			rule:     "AN5",
			expected: entities.NewClassification(0.1, entities.ClassLow),
		},
		{
			name: "near_expiry_high_bucket",
			row: row(func(r *entities.InventoryRecord) {
				r.IndicadorStockEspec = str("W")
				r.StatusCons = entities.StatusNearExpiry
				r.RangoCons = str("5.ENTRE 360 Y 540 DIAS")
			}),
			rule:     "AN6",
			expected: entities.NewClassification(1, entities.ClassVeryHigh),
		},
		{
			name: "near_expiry_low_bucket",
			row: row(func(r *entities.InventoryRecord) {
				r.IndicadorStockEspec = str("W")
				r.StatusCons = entities.StatusNearExpiry
				r.RangoCons = str("4.ENTRE 270 Y 360 DIAS")
			}),
			rule:     "AN6",
			expected: entities.NewClassification(0.2, entities.ClassMedium),
		},
		{
			name: "unparseable_range",
			row: row(func(r *entities.InventoryRecord) {
				r.IndicadorStockEspec = str("W")
				r.StatusCons = entities.StatusObsolete
				r.RangoCons = str("FALSO")
			}),
			rule:     "AN6",
			expected: entities.DefaultClassification,
		},
		{
			name: "default",
			row: row(func(r *entities.InventoryRecord) {
				r.IndicadorStockEspec = str("W")
				r.StatusCons = entities.StatusBlocked
				r.TiempoBloqueo = 90
			}),
			rule:     "AN7",
			expected: entities.DefaultClassification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.ClassifyAvonNatura(tt.row)
			assert.Equal(t, tt.rule, d.Rule)
			assert.True(t, tt.expected.Equal(d.Classification), "got %s %s", d.Factor, d.Class)
		})
	}
}

func TestClassifyAvonNatura_FirstMatchWins(t *testing.T) {
	// matches rule 1 and rule 6
	r := row(func(r *entities.InventoryRecord) {
		r.Segmentacion = "EXPERTOS NO LOCALES"
		r.StatusCons = entities.StatusBlocked
		r.TiempoBloqueo = 5
		r.IndicadorStockEspec = str("W")
		r.RangoCons = str("7.MAYOR DE 720 DIAS")
	})
	r2 := *r
	r2.StatusCons = entities.StatusExpired

	engine := testEngine(t)
	assert.Equal(t, "AN6", engine.ClassifyAvonNatura(&r2).Rule, "rule 6 applies on its own")

	d := engine.ClassifyAvonNatura(r)
	assert.Equal(t, "AN1", d.Rule)
	assert.True(t, entities.DefaultClassification.Equal(d.Classification))
}

func otherRow(mods ...func(*entities.InventoryRecord)) *entities.InventoryRecord {
	base := func(r *entities.InventoryRecord) {
		r.MarcaQM = str("AMAZON")
	}
	return row(append([]func(*entities.InventoryRecord){base}, mods...)...)
}

func TestClassifyOtherBrands(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name     string
		row      *entities.InventoryRecord
		rule     string
		expected entities.Classification
	}{
		{
			name: "channel_owner_short_block",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.Segmentacion = "DUEÑOS DE CANAL"
				r.StatusCons = entities.StatusBlocked
				r.TiempoBloqueo = -40
			}),
			rule:     "OB1",
			expected: entities.DefaultClassification,
		},
		{
			name:     "consignment_indicator",
			row:      otherRow(func(r *entities.InventoryRecord) { r.IndicadorStockEspec = str("K") }),
			rule:     "OB2",
			expected: entities.DefaultClassification,
		},
		{
			name: "bulk_short_permanence",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.TipoMaterialI = str("GRANEL FAB A TERCERO")
				r.Permanencia = num(30)
			}),
			rule:     "OB3",
			expected: entities.DefaultClassification,
		},
		{
			name:     "brand_otras",
			row:      otherRow(func(r *entities.InventoryRecord) { r.MarcaQM = str("OTRAS") }),
			rule:     "OB4",
			expected: entities.DefaultClassification,
		},
		{
			name:     "available_without_coverage",
			row:      otherRow(func(r *entities.InventoryRecord) { r.RangoCobertura = sql.NullString{} }),
			rule:     "OB4",
			expected: entities.DefaultClassification,
		},
		{
			name: "stock_w_expired",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.IndicadorStockEspec = str("W")
				r.StatusCons = entities.StatusExpired
			}),
			rule:     "OB5",
			expected: entities.NewClassification(0.6, entities.ClassHigh),
		},
		{
			name:     "stock_w_available",
			row:      otherRow(func(r *entities.InventoryRecord) { r.IndicadorStockEspec = str("W") }),
			rule:     "OB5",
			expected: entities.NewClassification(0.4, entities.ClassMedium),
		},
		{
			name: "stock_w_obsolete",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.IndicadorStockEspec = str("W")
				r.StatusCons = entities.StatusObsolete
				r.RangoCons = str("7.MAYOR DE 720 DIAS")
			}),
			rule:     "OB5",
			expected: entities.NewClassification(1, entities.ClassVeryHigh),
		},
		{
			name: "near_expiry_hit",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.StatusCons = entities.StatusNearExpiry
				r.RangoProxVencerMM = str("1.PAV 3 MESES")
				r.RangoCobertura = str("1.COB < 3 MESES")
			}),
			rule:     "OB6A",
			expected: entities.NewClassification(0.25, entities.ClassMedium),
		},
		{
			name: "near_expiry_miss_falls_through",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.StatusCons = entities.StatusNearExpiry
				r.RangoProxVencerMM = str("2.PAV 4 A 6 MESES")
			}),
			rule:     "OB7",
			expected: entities.DefaultClassification,
		},
		{
			name:     "available_primary",
			row:      otherRow(),
			rule:     "OB6B",
			expected: entities.NewClassification(0.15, entities.ClassLow),
		},
		{
			name: "available_fallback_to_aged",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.RangoCobertura = str("2.COB 3 A 6 MESES")
				r.RangoCons = str("6.ENTRE 540 Y 720 DIAS")
			}),
			rule:     "OB6B-AGED",
			expected: entities.NewClassification(0.5, entities.ClassHigh),
		},
		{
			name: "blocked_aged_lookup",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.IndicadorStockEspec = str("O")
				r.StatusCons = entities.StatusBlocked
				r.TiempoBloqueo = 200
				r.RangoCons = str("3.ENTRE 180 Y 270 DIAS")
			}),
			rule:     "OB6C",
			expected: entities.NewClassification(0.7, entities.ClassHigh),
		},
		{
			name: "aged_lookup_miss",
			row: otherRow(func(r *entities.InventoryRecord) {
				r.StatusCons = entities.StatusExpired
				r.RangoCons = str("1.MENOR DE 90 DIAS")
			}),
			rule:     "OB6C",
			expected: entities.DefaultClassification,
		},
		{
			name:     "unknown_indicator",
			row:      otherRow(func(r *entities.InventoryRecord) { r.IndicadorStockEspec = str("E") }),
			rule:     "OB7",
			expected: entities.DefaultClassification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.ClassifyOtherBrands(tt.row)
			assert.Equal(t, tt.rule, d.Rule)
			assert.True(t, tt.expected.Equal(d.Classification), "got %s %s", d.Factor, d.Class)
		})
	}
}

func TestEngine_CustomSubsetLabels(t *testing.T) {
	e, err := entities.NewMatrixEntry(1, "EXPERTOS LOCALESVENCIDO5.ENTRE 360 Y 540 DIAS", "", "", decimal.NewFromInt(80), "ALTO", "consignacion")
	require.NoError(t, err)

	subsets := entities.DefaultPolicySubsets()
	subsets.StockW = "Consignacion"
	engine := NewEngine(shared.NewMatrixIndex([]*entities.MatrixEntry{e}), subsets)

	d := engine.ClassifyOtherBrands(otherRow(func(r *entities.InventoryRecord) {
		r.IndicadorStockEspec = str("W")
		r.StatusCons = entities.StatusExpired
	}))
	assert.True(t, d.Hit)
	assert.Equal(t, entities.ClassHigh, d.Class)
}

func TestApplier_Apply(t *testing.T) {
	engine := testEngine(t)

	records := make([]*entities.InventoryRecord, 0, 50)
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			records = append(records, otherRow())
		} else {
			records = append(records, otherRow(func(r *entities.InventoryRecord) { r.IndicadorStockEspec = str("K") }))
		}
	}
	ds, err := entities.NewDataset([]string{entities.ColMarcaQM}, records)
	require.NoError(t, err)

	stats, err := NewApplier(engine, 4, nil).Apply(context.Background(), FamilyOtherBrands, ds)
	require.NoError(t, err)

	assert.Equal(t, 50, stats.Rows)
	assert.Equal(t, 25, stats.ByRule["OB6B"])
	assert.Equal(t, 25, stats.ByRule["OB2"])
	assert.Equal(t, 25, stats.Lookups)
	assert.Equal(t, 25, stats.Hits)
	assert.True(t, ds.HasColumn(entities.ColFactorProv))
	assert.True(t, ds.HasColumn(entities.ColClasBaseRiesgo))

	for i, r := range ds.Records {
		if i%2 == 0 {
			assert.True(t, decimal.RequireFromString("0.15").Equal(r.FactorProv), "row %d", i)
		} else {
			assert.True(t, r.FactorProv.IsZero(), "row %d", i)
		}
		assert.Equal(t, entities.ClassLow, r.ClasBaseRiesgo)
	}
}
