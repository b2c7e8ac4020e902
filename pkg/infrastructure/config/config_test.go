package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

func TestLoad_FileEnvAndDotenv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "riskbase.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
input:
  path: cubo.csv
  encoding: windows-1252
  delimiter: ";"
matrix:
  source: file
  path: matriz.xlsx
database:
  path: from-file.db
workers: 4
log:
  level: debug
matrix_types:
  near_expiry: PROXIMO A VENCER
`), 0o644))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("RISKBASE_TEMP_DIR=/tmp/from-dotenv\n"), 0o644))

	t.Setenv(EnvDatabase, "from-env.db")
	t.Setenv(EnvTempDir, "")
	os.Unsetenv(EnvTempDir)

	cfg, err := Load(cfgPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "cubo.csv", cfg.Input.Path)
	assert.Equal(t, ';', cfg.Input.Comma())
	assert.Equal(t, MatrixFromFile, cfg.Matrix.Source)
	assert.Equal(t, "from-env.db", cfg.Database.Path, "environment beats the file")
	assert.Equal(t, "/tmp/from-dotenv", cfg.TempDir, ".env feeds the environment")
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, entities.MatrixType("PROXIMO A VENCER"), cfg.MatrixTypes.NearExpiry)
	assert.Equal(t, entities.MatrixType("STOCK W"), cfg.MatrixTypes.StockW, "unset labels keep their defaults")
	assert.Equal(t, FormatText, cfg.Output.Format)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "none.env"))
	assert.ErrorContains(t, err, "failed to read config")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: [1, 2"), 0o644))
	_, err = Load(bad, filepath.Join(dir, "none.env"))
	assert.ErrorContains(t, err, "failed to parse config")

	cfg, err := Load("", filepath.Join(dir, "none.env"))
	require.NoError(t, err, "no file and no .env is fine")
	assert.Equal(t, 1, cfg.Workers)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		expected string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"negative_workers", func(c *Config) { c.Workers = -1 }, "workers cannot be negative, got -1"},
		{"bad_output_format", func(c *Config) { c.Output.Format = "pdf" }, `output.format "pdf" is not one of text, json, csv, xlsx`},
		{"bad_input_format", func(c *Config) { c.Input.Format = "parquet" }, `input.format "parquet" is not one of csv, xlsx`},
		{"bad_encoding", func(c *Config) { c.Input.Encoding = "ebcdic" }, `input.encoding "ebcdic" is not supported`},
		{"long_delimiter", func(c *Config) { c.Input.Delimiter = ";;" }, `input.delimiter must be a single character, got ";;"`},
		{"file_matrix_without_path", func(c *Config) { c.Matrix.Source = MatrixFromFile }, `matrix.path is required when matrix.source is "file"`},
		{"unknown_matrix_source", func(c *Config) { c.Matrix.Source = "api" }, `matrix.source must be "db" or "file", got "api"`},
		{"bad_log_format", func(c *Config) { c.Log.Format = "xml" }, `log.format must be console or json, got "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expected)
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{EnvWorkers: "8", EnvLogLevel: "warn"}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	c := Default()
	require.NoError(t, c.ApplyEnv(lookup))
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, "warn", c.Log.Level)

	env[EnvWorkers] = "many"
	assert.Error(t, c.ApplyEnv(lookup))
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path, explicit, expected string
		wantErr                  bool
	}{
		{"cubo.CSV", "", FormatCSV, false},
		{"cubo.xlsx", "", FormatXLSX, false},
		{"cubo.dat", "csv", FormatCSV, false},
		{"cubo.dat", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path+"_"+tt.explicit, func(t *testing.T) {
			got, err := FormatOf(tt.path, tt.explicit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
