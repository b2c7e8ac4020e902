package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
	"github.com/vsinha/riskbase/pkg/infrastructure/config"
	"github.com/vsinha/riskbase/pkg/infrastructure/events"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/excel"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/sqlite"
)

// Matrix maintenance actions
const (
	ActionList    = "list"
	ActionImport  = "import"
	ActionExport  = "export"
	ActionUpdate  = "update"
	ActionHistory = "history"
	ActionRestore = "restore"
)

// MatricesConfig holds configuration for the matrices command
type MatricesConfig struct {
	Common

	Action string

	// import / export
	File      string
	Format    string
	Sheet     string
	Encoding  string
	Delimiter string

	// list
	Type string

	// update
	PolicyID      int64
	Factor        string // 0-100
	Clasificacion string

	// restore
	Snapshot string
}

// MatricesCommand maintains the policy matrix stored in the database
type MatricesCommand struct {
	config MatricesConfig
	stdout io.Writer
	logger *zap.Logger
	events events.EventStore
}

// NewMatricesCommand creates a new matrices command
func NewMatricesCommand(config MatricesConfig) *MatricesCommand {
	return &MatricesCommand{config: config}
}

// WithOutput redirects what the command prints
func (c *MatricesCommand) WithOutput(w io.Writer) *MatricesCommand {
	c.stdout = w
	return c
}

// WithLogger replaces the logger built from configuration
func (c *MatricesCommand) WithLogger(logger *zap.Logger) *MatricesCommand {
	c.logger = logger
	return c
}

// WithEvents records maintenance events in store
func (c *MatricesCommand) WithEvents(store events.EventStore) *MatricesCommand {
	c.events = store
	return c
}

// Execute runs the requested action
func (c *MatricesCommand) Execute(ctx context.Context) error {
	out := writerOr(c.stdout)
	if c.config.Help || c.config.Action == "" {
		c.showHelp(out)
		return nil
	}

	cfg, err := c.config.load()
	if err != nil {
		return err
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("validation error: a database is required (-db)")
	}

	logger := c.logger
	if logger == nil {
		if logger, err = newLogger(cfg); err != nil {
			return err
		}
		defer logger.Sync()
	}

	eventStore := c.events
	if eventStore == nil {
		eventStore = events.NewInMemoryEventStore(logger)
	}
	if c.config.Verbose {
		if err := printEvents(eventStore, out); err != nil {
			return err
		}
	}
	record := func(e events.Event) { recordEvent(eventStore, logger, events.MatrixStream, e) }

	store, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	switch c.config.Action {
	case ActionList:
		return c.list(ctx, store, out)
	case ActionImport:
		return c.importFile(ctx, cfg, store, record, out)
	case ActionExport:
		return c.exportFile(ctx, cfg, store, out)
	case ActionUpdate:
		return c.update(ctx, store, record, out)
	case ActionHistory:
		return c.history(ctx, store, out)
	case ActionRestore:
		return c.restore(ctx, store, record, out)
	default:
		return fmt.Errorf("unknown matrices action: %s", c.config.Action)
	}
}

func (c *MatricesCommand) list(ctx context.Context, store *sqlite.Store, out io.Writer) error {
	entries, err := store.GetAllEntries(ctx)
	if err != nil {
		return err
	}

	filter := entities.MatrixType(entities.NormalizeText(c.config.Type))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIPO\tCONCATENADO\tFACTOR\tCLASIFICACION")
	shown := 0
	for _, e := range entries {
		if filter != "" && e.TipoMatriz != filter {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.PolicyID, e.TipoMatriz, e.Concatenado, e.FactorPercent().String(), e.Clasificacion)
		shown++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d policies\n", shown)
	return nil
}

func (c *MatricesCommand) importFile(ctx context.Context, cfg *config.Config, store *sqlite.Store, record func(events.Event), out io.Writer) error {
	if c.config.File == "" {
		return fmt.Errorf("validation error: import needs -file")
	}
	loader, err := csvLoader(c.config.Encoding, cfg.Input.Comma())
	if err != nil {
		return err
	}
	if c.config.Delimiter != "" {
		loader = loader.WithComma([]rune(c.config.Delimiter)[0])
	}

	entries, err := readMatrixFile(c.config.File, c.config.Format, c.config.Sheet, loader)
	if err != nil {
		return err
	}
	if err := store.ReplaceEntries(ctx, entries); err != nil {
		return fmt.Errorf("error importing matrix: %w", err)
	}

	record(events.NewMatrixImportedEvent(len(entries)))
	fmt.Fprintf(out, "✅ Imported %d policies from %s\n", len(entries), c.config.File)
	return nil
}

func (c *MatricesCommand) exportFile(ctx context.Context, cfg *config.Config, store *sqlite.Store, out io.Writer) error {
	if c.config.File == "" {
		return fmt.Errorf("validation error: export needs -file")
	}
	entries, err := store.GetAllEntries(ctx)
	if err != nil {
		return err
	}

	format, err := config.FormatOf(c.config.File, c.config.Format)
	if err != nil {
		return err
	}
	switch format {
	case config.FormatCSV:
		loader, err := csvLoader(c.config.Encoding, cfg.Input.Comma())
		if err != nil {
			return err
		}
		err = loader.WriteMatrix(c.config.File, entries)
		if err != nil {
			return err
		}
	case config.FormatXLSX:
		sheet := c.config.Sheet
		if sheet == "" {
			sheet = excel.MatrixSheet
		}
		if err := excel.NewWorkbook(sheet).WriteMatrix(c.config.File, entries); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported matrix format: %s", format)
	}

	fmt.Fprintf(out, "💾 Exported %d policies to %s\n", len(entries), c.config.File)
	return nil
}

func (c *MatricesCommand) update(ctx context.Context, store *sqlite.Store, record func(events.Event), out io.Writer) error {
	if c.config.PolicyID <= 0 {
		return fmt.Errorf("validation error: update needs -id")
	}

	u := repositories.MatrixUpdate{PolicyID: c.config.PolicyID}
	if c.config.Factor != "" {
		f, err := decimal.NewFromString(c.config.Factor)
		if err != nil {
			return fmt.Errorf("validation error: invalid factor %q", c.config.Factor)
		}
		u.FactorPercent = &f
	}
	if c.config.Clasificacion != "" {
		class := c.config.Clasificacion
		u.Clasificacion = &class
	}

	n, err := store.UpdateEntries(ctx, []repositories.MatrixUpdate{u})
	if err != nil {
		return fmt.Errorf("error updating matrix: %w", err)
	}

	record(events.NewMatrixUpdatedEvent([]int64{u.PolicyID}, n))
	fmt.Fprintf(out, "✅ Policy %d updated\n", u.PolicyID)
	return nil
}

func (c *MatricesCommand) history(ctx context.Context, store *sqlite.Store, out io.Writer) error {
	snapshots, err := store.Snapshots(ctx)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No saved matrix states")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SNAPSHOT\tTAKEN AT\tPOLICIES")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.TakenAt.Format("2006-01-02 15:04:05"), strconv.Itoa(len(s.Entries)))
	}
	return tw.Flush()
}

func (c *MatricesCommand) restore(ctx context.Context, store *sqlite.Store, record func(events.Event), out io.Writer) error {
	if c.config.Snapshot == "" {
		return fmt.Errorf("validation error: restore needs -snapshot")
	}
	if err := store.RestoreSnapshot(ctx, c.config.Snapshot); err != nil {
		return fmt.Errorf("error restoring matrix: %w", err)
	}
	entries, err := store.GetAllEntries(ctx)
	if err != nil {
		return err
	}

	record(events.NewMatrixImportedEvent(len(entries)))
	fmt.Fprintf(out, "✅ Restored snapshot %s (%d policies)\n", c.config.Snapshot, len(entries))
	return nil
}

func (c *MatricesCommand) showHelp(w io.Writer) {
	fmt.Fprint(w, `riskbase matrices - maintain the risk policy matrix

USAGE:
    riskbase matrices <action> [options]

ACTIONS:
    list        List policies (-type filters by tipo_matriz)
    import      Replace the matrix with the rows of -file (.csv or .xlsx)
    export      Write the matrix to -file
    update      Change factor and/or class of policy -id
    history     List saved matrix states
    restore     Bring back a saved state (-snapshot)

OPTIONS:
    -db <path>          SQLite database (default: riskbase.db or RISKBASE_DB)
    -file <file>        Matrix file for import/export
    -format <fmt>       File format: csv, xlsx (default: from extension)
    -sheet <name>       xlsx sheet
    -encoding <enc>     CSV encoding: utf-8, windows-1252
    -delimiter <c>      CSV field separator
    -type <tipo>        tipo_matriz filter for list
    -id <n>             Policy id for update
    -factor <pct>       New factor_prov, 0-100
    -class <class>      New clasificacion
    -snapshot <id>      Snapshot id for restore
    -verbose            Print maintenance events

Every update and restore saves the previous matrix to MatrizBaseRiesgoHist.

EXAMPLES:
    riskbase matrices import -file matriz.xlsx -sheet Matriz
    riskbase matrices list -type "STOCK W"
    riskbase matrices update -id 12 -factor 35 -class ALTO
    riskbase matrices history
    riskbase matrices restore -snapshot 3f1c...
`)
}
