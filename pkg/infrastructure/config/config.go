// Package config loads riskbase settings from an optional YAML file, a .env
// file and RISKBASE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// Environment variables that override file settings.
const (
	EnvDatabase = "RISKBASE_DB"
	EnvTempDir  = "RISKBASE_TEMP_DIR"
	EnvLogLevel = "RISKBASE_LOG_LEVEL"
	EnvWorkers  = "RISKBASE_WORKERS"
)

// File formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
	FormatText = "text"
)

// Matrix sources
const (
	MatrixFromDB   = "db"
	MatrixFromFile = "file"
)

type InputConfig struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format"` // empty: from the file extension
	Encoding  string `yaml:"encoding"`
	Delimiter string `yaml:"delimiter"`
	Sheet     string `yaml:"sheet"`
}

type MatrixConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
	Sheet  string `yaml:"sheet"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"` // empty: stdout for text/json, temp_dir for files
	Format string `yaml:"format"`
	File   string `yaml:"file"` // empty: dated default name
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds every runtime setting
type Config struct {
	Input       InputConfig            `yaml:"input"`
	Matrix      MatrixConfig           `yaml:"matrix"`
	Database    DatabaseConfig         `yaml:"database"`
	Output      OutputConfig           `yaml:"output"`
	Log         LogConfig              `yaml:"log"`
	TempDir     string                 `yaml:"temp_dir"`
	Workers     int                    `yaml:"workers"`
	MatrixTypes entities.PolicySubsets `yaml:"matrix_types"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Input:       InputConfig{Encoding: "utf-8", Delimiter: ","},
		Matrix:      MatrixConfig{Source: MatrixFromDB},
		Database:    DatabaseConfig{Path: "riskbase.db"},
		Output:      OutputConfig{Format: FormatText},
		Log:         LogConfig{Level: "info", Format: "console"},
		TempDir:     os.TempDir(),
		Workers:     1,
		MatrixTypes: entities.DefaultPolicySubsets(),
	}
}

// Load builds the configuration. envFile and path may be empty; a missing
// .env file is not an error, a missing YAML file is.
func Load(path, envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabase); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvTempDir); ok && v != "" {
		c.TempDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks formats, encodings and counts.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	if err := checkFormat("input.format", c.Input.Format, FormatCSV, FormatXLSX); err != nil {
		return err
	}
	if err := checkFormat("matrix.format", c.Matrix.Format, FormatCSV, FormatXLSX); err != nil {
		return err
	}
	if err := checkFormat("output.format", c.Output.Format, FormatText, FormatJSON, FormatCSV, FormatXLSX); err != nil {
		return err
	}
	switch strings.ToLower(c.Input.Encoding) {
	case "", "utf-8", "utf8", "windows-1252", "cp1252", "latin1":
	default:
		return fmt.Errorf("input.encoding %q is not supported", c.Input.Encoding)
	}
	if len([]rune(c.Input.Delimiter)) > 1 {
		return fmt.Errorf("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	switch c.Matrix.Source {
	case MatrixFromDB:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required when matrix.source is %q", MatrixFromDB)
		}
	case MatrixFromFile:
		if c.Matrix.Path == "" {
			return fmt.Errorf("matrix.path is required when matrix.source is %q", MatrixFromFile)
		}
	default:
		return fmt.Errorf("matrix.source must be %q or %q, got %q", MatrixFromDB, MatrixFromFile, c.Matrix.Source)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

func checkFormat(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s %q is not one of %s", field, value, strings.Join(allowed, ", "))
}

// Comma returns the input delimiter as a rune, ',' when unset.
func (c InputConfig) Comma() rune {
	if c.Delimiter == "" {
		return ','
	}
	return []rune(c.Delimiter)[0]
}

// FormatOf resolves a file format: the explicit value when set, else the
// path's extension.
func FormatOf(path, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("cannot tell the format of %q; set it explicitly", path)
}
