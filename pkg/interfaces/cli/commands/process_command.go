package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/application/services"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
	"github.com/vsinha/riskbase/pkg/infrastructure/config"
	"github.com/vsinha/riskbase/pkg/infrastructure/events"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
	"github.com/vsinha/riskbase/pkg/interfaces/cli/output"
)

// ProcessConfig holds configuration for the process command. Empty values
// fall back to the configuration file.
type ProcessConfig struct {
	Common

	Input     string
	Format    string
	Encoding  string
	Delimiter string
	Sheet     string

	MatrixFile   string // set: read the policy matrix from this file instead of the database
	MatrixFormat string
	MatrixSheet  string

	OutputDir    string
	OutputFile   string
	OutputFormat string
	Workers      int // 0: from configuration
	Save         bool
}

// ProcessCommand classifies an inventory extract and exports the risk base
type ProcessCommand struct {
	config ProcessConfig
	stdout io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// NewProcessCommand creates a new process command with the given configuration
func NewProcessCommand(config ProcessConfig) *ProcessCommand {
	return &ProcessCommand{config: config, now: time.Now}
}

// WithOutput redirects what the command prints
func (c *ProcessCommand) WithOutput(w io.Writer) *ProcessCommand {
	c.stdout = w
	return c
}

// WithLogger replaces the logger built from configuration
func (c *ProcessCommand) WithLogger(logger *zap.Logger) *ProcessCommand {
	c.logger = logger
	return c
}

func (c *ProcessCommand) settings() (*config.Config, error) {
	cfg, err := c.config.load()
	if err != nil {
		return nil, err
	}

	p := c.config
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Input.Path, p.Input)
	set(&cfg.Input.Format, p.Format)
	set(&cfg.Input.Encoding, p.Encoding)
	set(&cfg.Input.Delimiter, p.Delimiter)
	set(&cfg.Input.Sheet, p.Sheet)
	if p.MatrixFile != "" {
		cfg.Matrix.Source = config.MatrixFromFile
		cfg.Matrix.Path = p.MatrixFile
	}
	set(&cfg.Matrix.Format, p.MatrixFormat)
	set(&cfg.Matrix.Sheet, p.MatrixSheet)
	set(&cfg.Output.Dir, p.OutputDir)
	set(&cfg.Output.File, p.OutputFile)
	set(&cfg.Output.Format, p.OutputFormat)
	if p.Workers > 0 {
		cfg.Workers = p.Workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("validation error: an inventory file is required (-input)")
	}
	if p.Save && cfg.Database.Path == "" {
		return nil, fmt.Errorf("validation error: -save needs a database")
	}
	return cfg, nil
}

// Execute runs the process command
func (c *ProcessCommand) Execute(ctx context.Context) error {
	out := writerOr(c.stdout)
	if c.config.Help {
		c.showHelp(out)
		return nil
	}

	cfg, err := c.settings()
	if err != nil {
		return err
	}

	logger := c.logger
	if logger == nil {
		if logger, err = newLogger(cfg); err != nil {
			return err
		}
		defer logger.Sync()
	}

	if c.config.Verbose {
		fmt.Fprintf(out, "🚀 Risk base processing\n")
		fmt.Fprintf(out, "  Inventory: %s\n", cfg.Input.Path)
		if cfg.Matrix.Source == config.MatrixFromFile {
			fmt.Fprintf(out, "  Matrix:    %s\n", cfg.Matrix.Path)
		} else {
			fmt.Fprintf(out, "  Matrix:    %s (database)\n", cfg.Database.Path)
		}
		fmt.Fprintf(out, "  Workers:   %d\n\n", cfg.Workers)
	}

	loader, err := csvLoader(cfg.Input.Encoding, cfg.Input.Comma())
	if err != nil {
		return err
	}

	sheet, err := readSheet(cfg.Input.Path, cfg.Input.Format, cfg.Input.Sheet, loader)
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}
	ds, err := tabular.DecodeInventory(sheet, tabular.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("error decoding inventory %s: %w", cfg.Input.Path, err)
	}
	inventoryRepo := memory.NewInventoryRepository()
	if err := inventoryRepo.Store(ds); err != nil {
		return fmt.Errorf("failed to load inventory into repository: %w", err)
	}

	var store *sqlite.Store
	if cfg.Matrix.Source == config.MatrixFromDB || c.config.Save {
		store, err = sqlite.Open(cfg.Database.Path, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var matrixRepo repositories.MatrixRepository = store
	if cfg.Matrix.Source == config.MatrixFromFile {
		entries, err := readMatrixFile(cfg.Matrix.Path, cfg.Matrix.Format, cfg.Matrix.Sheet, loader)
		if err != nil {
			return err
		}
		mem := memory.NewMatrixRepository(len(entries))
		if err := mem.LoadEntries(entries); err != nil {
			return fmt.Errorf("failed to load matrix into repository: %w", err)
		}
		matrixRepo = mem
	}

	if c.config.Verbose {
		fmt.Fprintf(out, "📂 Loaded %d inventory rows\n", inventoryRepo.Len())
	}

	eventStore := events.NewInMemoryEventStore(logger)
	if c.config.Verbose {
		if err := printEvents(eventStore, out); err != nil {
			return err
		}
	}

	service := services.NewRiskBaseServiceWithConfig(services.EngineConfig{
		Workers: cfg.Workers,
		Subsets: cfg.MatrixTypes,
	}, eventStore, logger)

	result, err := service.Process(ctx, inventoryRepo, matrixRepo)
	if err != nil {
		return fmt.Errorf("error processing inventory: %w", err)
	}

	path, err := output.Generate(result, output.Config{
		Format:    cfg.Output.Format,
		OutputDir: cfg.Output.Dir,
		TempDir:   cfg.TempDir,
		FileName:  cfg.Output.File,
		Verbose:   c.config.Verbose,
		Date:      c.now(),
		CSV:       loader,
		Stdout:    out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	if path != "" && !c.config.Verbose && cfg.Output.Format != config.FormatText {
		fmt.Fprintln(out, path)
	}

	if c.config.Save {
		n, err := store.SaveResults(ctx, result.RunID, result.Table)
		if err != nil {
			return fmt.Errorf("error saving results: %w", err)
		}
		recordEvent(eventStore, logger, result.RunID, events.NewResultsSavedEvent(result.RunID, sqlite.TableResults, n))
	}

	if c.config.Verbose {
		fmt.Fprintln(out, "🏁 Risk base complete!")
	}
	return nil
}

func (c *ProcessCommand) showHelp(w io.Writer) {
	fmt.Fprint(w, `riskbase process - classify an inventory extract into the risk base

USAGE:
    riskbase process -input <file> [options]

OPTIONS:
    -input <file>          Inventory extract (.csv or .xlsx)
    -format <fmt>          Input format: csv, xlsx (default: from extension)
    -encoding <enc>        CSV encoding: utf-8, windows-1252 (default: utf-8)
    -delimiter <c>         CSV field separator (default: ,)
    -sheet <name>          xlsx sheet to read (default: first sheet)
    -matrix <file>         Read the policy matrix from a file instead of the database
    -matrix-format <fmt>   Matrix file format: csv, xlsx
    -matrix-sheet <name>   Matrix xlsx sheet
    -db <path>             SQLite database holding the policy matrix
    -output <dir>          Output directory (text/json print to stdout when empty)
    -out-file <name>       Output file name (default: Analisis_BaseRiesgo_Final_<DD-MM-YYYY>.<ext>)
    -out-format <fmt>      Output format: text, json, csv, xlsx (default: text)
    -workers <n>           Concurrent row batches (default: 1)
    -save                  Also append the result to InventarioBaseRiesgo
    -config <file>         YAML configuration file
    -env <file>            .env file (default: .env)
    -log-level <lvl>       debug, info, warn, error
    -verbose               Print progress and the run events
    -help                  Show this help message

EXAMPLES:
    riskbase process -input cubo_2024_01.csv -encoding windows-1252 -delimiter ';'
    riskbase process -input cubo.xlsx -out-format xlsx -output results/
    riskbase process -input cubo.csv -matrix matriz.csv -out-format json
`)
}
