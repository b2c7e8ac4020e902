package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/application/services/assembly"
	"github.com/vsinha/riskbase/pkg/infrastructure/events"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

// SaveConfig holds configuration for the save command
type SaveConfig struct {
	Common

	File      string
	Format    string
	Sheet     string
	Encoding  string
	Delimiter string
	RunID     string // empty: a new uuid
}

// SaveCommand appends an exported risk base to InventarioBaseRiesgo
type SaveCommand struct {
	config SaveConfig
	stdout io.Writer
	logger *zap.Logger
}

// NewSaveCommand creates a new save command
func NewSaveCommand(config SaveConfig) *SaveCommand {
	return &SaveCommand{config: config}
}

// WithOutput redirects what the command prints
func (c *SaveCommand) WithOutput(w io.Writer) *SaveCommand {
	c.stdout = w
	return c
}

// WithLogger replaces the logger built from configuration
func (c *SaveCommand) WithLogger(logger *zap.Logger) *SaveCommand {
	c.logger = logger
	return c
}

// Execute runs the save command
func (c *SaveCommand) Execute(ctx context.Context) error {
	out := writerOr(c.stdout)
	if c.config.Help {
		c.showHelp(out)
		return nil
	}
	if c.config.File == "" {
		return fmt.Errorf("validation error: a processed file is required (-file)")
	}

	cfg, err := c.config.load()
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

	encoding := c.config.Encoding
	if encoding == "" {
		encoding = cfg.Input.Encoding
	}
	comma := cfg.Input.Comma()
	if c.config.Delimiter != "" {
		comma = []rune(c.config.Delimiter)[0]
	}
	loader, err := csvLoader(encoding, comma)
	if err != nil {
		return err
	}

	sheet, err := readSheet(c.config.File, c.config.Format, c.config.Sheet, loader)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", c.config.File, err)
	}
	ds, err := tabular.DecodeInventory(sheet, tabular.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", c.config.File, err)
	}
	for _, r := range ds.Records {
		for _, d := range r.Dates() {
			d.Parse()
		}
	}
	table := assembly.Reindex(ds)

	runID := c.config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	store, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.SaveResults(ctx, runID, table)
	if err != nil {
		return fmt.Errorf("error saving results: %w", err)
	}

	eventStore := events.NewInMemoryEventStore(logger)
	if c.config.Verbose {
		if err := printEvents(eventStore, out); err != nil {
			return err
		}
	}
	recordEvent(eventStore, logger, runID, events.NewResultsSavedEvent(runID, sqlite.TableResults, n))
	fmt.Fprintf(out, "✅ Saved %d rows to %s (run %s)\n", n, sqlite.TableResults, runID)
	return nil
}

func (c *SaveCommand) showHelp(w io.Writer) {
	fmt.Fprint(w, `riskbase save - store a processed risk base in the database

USAGE:
    riskbase save -file <file> [options]

OPTIONS:
    -file <file>        Exported risk base (.csv or .xlsx)
    -format <fmt>       File format: csv, xlsx (default: from extension)
    -sheet <name>       xlsx sheet (default: first sheet)
    -encoding <enc>     CSV encoding: utf-8, windows-1252
    -delimiter <c>      CSV field separator
    -run-id <id>        Tag for the stored rows (default: new uuid)
    -db <path>          SQLite database (default: riskbase.db or RISKBASE_DB)
    -verbose            Print the save event

Columns are matched by name; canonical columns missing from the file are
stored as NULL and unknown columns are ignored.
`)
}
