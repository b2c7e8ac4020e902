package excel

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/riskbase/pkg/application/dto"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

func TestWorkbook_TableRoundTrip(t *testing.T) {
	table := &dto.Table{
		Columns: []string{entities.ColMarcaQM, entities.ColFechaEntrada, entities.ColValorDef, entities.ColTiempoBloqueo, entities.ColRangoCons},
		Data: [][]any{
			{"NATURA", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("1234567.891"), int64(45), nil},
			{"ÉSIKA", nil, decimal.Zero, int64(-3), "VENCIDO"},
		},
	}

	path := filepath.Join(t.TempDir(), "Analisis_BaseRiesgo_Final.xlsx")
	wb := NewWorkbook(ResultSheet)
	require.NoError(t, wb.WriteTable(path, table))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, ResultSheet, f.GetSheetName(0))
	require.NoError(t, f.Close())

	back, err := NewWorkbook("").ReadSheet(path)
	require.NoError(t, err)
	assert.Equal(t, tabular.EncodeTable(table), back)
}

func TestWorkbook_DecimalsKeepPrecision(t *testing.T) {
	tests := []struct {
		name  string
		value decimal.Decimal
	}{
		{
			name:  "seventeen_significant_digits",
			value: decimal.RequireFromString("12345678.123456").Mul(decimal.RequireFromString("0.3333")),
		},
		{
			name:  "long_fraction",
			value: decimal.RequireFromString("0.12345678901234567890123"),
		},
		{
			name:  "large_integer",
			value: decimal.RequireFromString("98765432109876543210"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &dto.Table{
				Columns: []string{entities.ColValorDef},
				Data:    [][]any{{tt.value}},
			}
			path := filepath.Join(t.TempDir(), "precision.xlsx")
			require.NoError(t, NewWorkbook(ResultSheet).WriteTable(path, table))

			back, err := NewWorkbook(ResultSheet).ReadSheet(path)
			require.NoError(t, err)
			require.Len(t, back.Rows, 1)

			got := entities.ParseDecimal(back.Rows[0][0])
			require.True(t, got.Valid, back.Rows[0][0])
			assert.True(t, tt.value.Equal(got.Decimal), "wrote %s, read %s", tt.value, got.Decimal)
		})
	}
}

func TestWorkbook_LoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubo.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"marca de qm", "LOTE", "VALOR TOTAL MM", "PERMANENCIA"},
		{"avon", "L1", 1500.5, 400},
		{"esika", nil, nil, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewWorkbook("").LoadInventory(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "AVON", ds.Records[0].MarcaQM.String)
	assert.True(t, decimal.RequireFromString("1500.5").Equal(ds.Records[0].ValorTotalMM.Decimal))
	assert.True(t, decimal.NewFromInt(400).Equal(ds.Records[0].Permanencia.Decimal))
	assert.Equal(t, "ESIKA", ds.Records[1].MarcaQM.String)
	assert.False(t, ds.Records[1].Lote.Valid)
}

func TestWorkbook_MatrixRoundTrip(t *testing.T) {
	a, err := entities.NewMatrixEntry(1, "AVONVENCIDO", "", "", decimal.NewFromInt(100), "ALTO", "AVON NATURA")
	require.NoError(t, err)
	b, err := entities.NewMatrixEntry(2, "STOCK W1.MENOR DE 90 DIAS", "", "", decimal.RequireFromString("12.5"), "BAJO", "STOCK W")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "matriz.xlsx")
	wb := NewWorkbook(MatrixSheet)
	require.NoError(t, wb.WriteMatrix(path, []*entities.MatrixEntry{a, b}))

	entries, err := wb.LoadMatrix(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "STOCK W1.MENOR DE 90 DIAS", entries[1].Concatenado)
	assert.True(t, decimal.RequireFromString("0.125").Equal(entries[1].FactorProv))
	assert.Equal(t, entities.MatrixType("AVON NATURA"), entries[0].TipoMatriz)
}

func TestWorkbook_Errors(t *testing.T) {
	_, err := NewWorkbook("").ReadSheet(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorContains(t, err, "failed to open Excel file")

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err = NewWorkbook("").ReadSheet(path)
	assert.ErrorContains(t, err, "has no header row")

	_, err = NewWorkbook("Otra").ReadSheet(path)
	assert.Error(t, err)
}
