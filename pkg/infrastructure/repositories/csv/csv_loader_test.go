package csv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/vsinha/riskbase/pkg/application/dto"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadInventory(t *testing.T) {
	path := writeFile(t, "inventario.csv",
		"MARCA DE QM;LOTE;VALOR TOTAL MM;FECHA ENTRADA\n"+
			"avon;222222;1500,75;03/02/2024\n"+
			"Cyzone;#;;\n")

	loader := NewLoader().WithComma(';')
	ds, err := loader.LoadInventory(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, "AVON", ds.Records[0].MarcaQM.String)
	assert.Equal(t, "222222", ds.Records[0].Lote.String)
	assert.True(t, decimal.RequireFromString("1500.75").Equal(ds.Records[0].ValorTotalMM.Decimal))
	assert.Equal(t, "CYZONE", ds.Records[1].MarcaQM.String)
	assert.False(t, ds.Records[1].ValorTotalMM.Valid)
}

func TestLoader_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("MARCA DE QM,DESCRIPCIÓN\nésika,Perfume niño\n")
	require.NoError(t, err)
	path := writeFile(t, "latin.csv", encoded)

	loader, err := NewLoader().WithEncoding("cp1252")
	require.NoError(t, err)
	assert.Equal(t, EncodingWindows1252, loader.Encoding())

	ds, err := loader.LoadInventory(path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "ÉSIKA", ds.Records[0].MarcaQM.String)
	assert.Equal(t, "PERFUME NIÑO", ds.Records[0].Descripcion.String)

	_, err = NewLoader().WithEncoding("ebcdic")
	assert.Error(t, err)
}

func TestLoader_Errors(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty_file", "", "CSV has no header row"},
		{"row_too_long", "LOTE\na,b\n", "row 2: has 2 cells, header has 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.LoadInventory(writeFile(t, "in.csv", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}

	_, err := loader.LoadInventory(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "failed to open file")
}

func TestLoader_TableRoundTrip(t *testing.T) {
	table := &dto.Table{
		Columns: []string{entities.ColMarcaQM, entities.ColFechaEntrada, entities.ColValorDef, entities.ColTiempoBloqueo, entities.ColRangoCons},
		Data: [][]any{
			{"NATURA", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("1234567.891"), int64(45), nil},
			{"AÑO, \"CON\" COMAS", nil, decimal.Zero, int64(0), "VENCIDO"},
		},
	}

	for _, encoding := range []string{EncodingUTF8, EncodingWindows1252} {
		t.Run(encoding, func(t *testing.T) {
			loader, err := NewLoader().WithEncoding(encoding)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "out.csv")
			require.NoError(t, loader.WriteTable(path, table))

			back, err := loader.ReadSheet(path)
			require.NoError(t, err)
			assert.Equal(t, tabular.EncodeTable(table), back)
		})
	}
}

func TestLoader_MatrixRoundTrip(t *testing.T) {
	path := writeFile(t, "matriz.csv",
		"id_politica_base_riesgo,concatenado,factor_prov,clasificacion,tipo_matriz\n"+
			"4,AVONVENCIDO,100,alto,avon natura\n"+
			"5,AVONBLOQUEADO,37.5,medio,avon natura\n")

	loader := NewLoader()
	entries, err := loader.LoadMatrix(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, decimal.RequireFromString("0.375").Equal(entries[1].FactorProv))

	out := filepath.Join(t.TempDir(), "copy.csv")
	require.NoError(t, loader.WriteMatrix(out, entries))

	again, err := loader.LoadMatrix(out)
	require.NoError(t, err)
	require.Len(t, again, len(entries))
	for i := range entries {
		assert.Equal(t, entries[i].PolicyID, again[i].PolicyID)
		assert.Equal(t, entries[i].Concatenado, again[i].Concatenado)
		assert.Equal(t, entries[i].Clasificacion, again[i].Clasificacion)
		assert.Equal(t, entries[i].TipoMatriz, again[i].TipoMatriz)
		assert.True(t, entries[i].FactorProv.Equal(again[i].FactorProv))
	}
}
