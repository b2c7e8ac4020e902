package output

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/riskbase/pkg/application/dto"
	"github.com/vsinha/riskbase/pkg/application/services"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/infrastructure/events"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/excel"
	testhelpers "github.com/vsinha/riskbase/pkg/infrastructure/testing"
)

var runDate = time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)

func processFixture(t *testing.T) *dto.RunResult {
	t.Helper()
	inventoryRepo, matrixRepo := testhelpers.BuildRiskBaseTestData()
	service := services.NewRiskBaseService(events.NewInMemoryEventStore(nil), nil)
	result, err := service.Process(context.Background(), inventoryRepo, matrixRepo)
	require.NoError(t, err)
	return result
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "Analisis_BaseRiesgo_Final_05-02-2024.xlsx", DefaultFileName(runDate, "xlsx"))
	assert.Equal(t, "Analisis_BaseRiesgo_Final_05-02-2024.csv", DefaultFileName(runDate, "csv"))
}

func TestConfig_Path(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name:     "text_to_stdout",
			config:   Config{Format: "text", TempDir: "/tmp/rb", Date: runDate},
			expected: "",
		},
		{
			name:     "json_to_stdout",
			config:   Config{Format: "json", TempDir: "/tmp/rb", Date: runDate},
			expected: "",
		},
		{
			name:     "text_to_dir",
			config:   Config{Format: "text", OutputDir: "out", Date: runDate},
			expected: filepath.Join("out", "Analisis_BaseRiesgo_Final_05-02-2024.txt"),
		},
		{
			name:     "xlsx_defaults_to_temp_dir",
			config:   Config{Format: "xlsx", TempDir: "/tmp/rb", Date: runDate},
			expected: filepath.Join("/tmp/rb", "Analisis_BaseRiesgo_Final_05-02-2024.xlsx"),
		},
		{
			name:     "explicit_file_name",
			config:   Config{Format: "csv", OutputDir: "out", FileName: "cierre.csv", Date: runDate},
			expected: filepath.Join("out", "cierre.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.Path())
		})
	}
}

func TestGenerate_Text(t *testing.T) {
	result := processFixture(t)
	var out bytes.Buffer

	path, err := Generate(result, Config{Format: "text", Stdout: &out, Date: runDate})
	require.NoError(t, err)
	assert.Empty(t, path)

	text := out.String()
	assert.Contains(t, text, "RISK BASE RESULTS")
	assert.Contains(t, text, "Provision:  960.00")
	assert.Contains(t, text, "Risk base:  2100.00")
	assert.Contains(t, text, "📋 BY CLASS")
	assert.Contains(t, text, "AVON_NATURA")
	assert.Equal(t, RenderSummary(result), text)
}

func TestGenerate_JSONFile(t *testing.T) {
	result := processFixture(t)
	dir := t.TempDir()

	path, err := Generate(result, Config{Format: "json", OutputDir: dir, Date: runDate, Stdout: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Analisis_BaseRiesgo_Final_05-02-2024.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		RunID   string      `json:"run_id"`
		Columns []string    `json:"columns"`
		Rows    [][]*string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, result.RunID, doc.RunID)
	assert.Equal(t, entities.CanonicalColumnNames(), doc.Columns)
	require.Len(t, doc.Rows, 6)

	lote := indexOf(doc.Columns, entities.ColLote)
	require.NotNil(t, doc.Rows[0][lote])
	assert.Equal(t, "AN-OBS", *doc.Rows[0][lote])
}

func TestGenerate_CSVAndXLSX(t *testing.T) {
	result := processFixture(t)
	dir := t.TempDir()

	tests := []struct {
		name   string
		format string
		read   func(path string) ([]string, [][]string, error)
	}{
		{
			name:   "csv",
			format: "csv",
			read: func(path string) ([]string, [][]string, error) {
				s, err := csv.NewLoader().ReadSheet(path)
				return s.Header, s.Rows, err
			},
		},
		{
			name:   "xlsx",
			format: "xlsx",
			read: func(path string) ([]string, [][]string, error) {
				s, err := excel.NewWorkbook(excel.ResultSheet).ReadSheet(path)
				return s.Header, s.Rows, err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Generate(result, Config{Format: tt.format, TempDir: dir, Date: runDate})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, DefaultFileName(runDate, tt.format)), path)

			header, rows, err := tt.read(path)
			require.NoError(t, err)
			assert.Equal(t, entities.CanonicalColumnNames(), header)
			require.Len(t, rows, 6)

			lote := indexOf(header, entities.ColLote)
			class := indexOf(header, entities.ColClasBaseRiesgo)
			prov := indexOf(header, entities.ColProvision)
			for _, row := range rows {
				want := testhelpers.RiskBaseExpectations[row[lote]]
				assert.Equal(t, string(want.Class), row[class], row[lote])
				assert.Equal(t, want.Provision, row[prov], row[lote])
			}
		})
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	result := processFixture(t)
	_, err := Generate(result, Config{Format: "pdf", OutputDir: t.TempDir(), Date: runDate})
	assert.EqualError(t, err, "unsupported output format: pdf")
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
