package commands

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/infrastructure/config"
	"github.com/vsinha/riskbase/pkg/infrastructure/events"
	"github.com/vsinha/riskbase/pkg/infrastructure/logging"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/excel"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

// Common holds the flags every subcommand accepts
type Common struct {
	ConfigFile string
	EnvFile    string
	Database   string
	LogLevel   string
	Verbose    bool
	Help       bool
}

// load reads the configuration and applies the flag overrides.
func (c Common) load() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigFile, c.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if c.Database != "" {
		cfg.Database.Path = c.Database
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

// printEvents subscribes a printer for every event the store receives.
func printEvents(store events.EventStore, w io.Writer) error {
	return store.Subscribe([]string{"*"}, events.HandlerFunc(func(e events.Event) error {
		fmt.Fprintf(w, "🔔 %s [%s] %+v\n", e.Type(), e.StreamID(), e.Data())
		return nil
	}))
}

// recordEvent appends e to the stream. A store failure is logged, not
// returned.
func recordEvent(store events.EventStore, logger *zap.Logger, streamID string, e events.Event) {
	if err := store.AppendEvent(streamID, e); err != nil {
		logger.Warn("failed to record event",
			zap.String("type", e.Type()),
			zap.String("stream", streamID),
			zap.Error(err))
	}
}

// csvLoader builds a loader for the given encoding and delimiter.
func csvLoader(encoding string, comma rune) (*csv.Loader, error) {
	loader, err := csv.NewLoader().WithEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return loader.WithComma(comma), nil
}

// readSheet reads path as CSV or xlsx according to format.
func readSheet(path, format, sheet string, loader *csv.Loader) (tabular.Sheet, error) {
	format, err := config.FormatOf(path, format)
	if err != nil {
		return tabular.Sheet{}, err
	}
	switch format {
	case config.FormatCSV:
		return loader.ReadSheet(path)
	case config.FormatXLSX:
		return excel.NewWorkbook(sheet).ReadSheet(path)
	}
	return tabular.Sheet{}, fmt.Errorf("unsupported input format: %s", format)
}

// readMatrixFile loads policy entries from a CSV or xlsx file.
func readMatrixFile(path, format, sheet string, loader *csv.Loader) ([]*entities.MatrixEntry, error) {
	s, err := readSheet(path, format, sheet, loader)
	if err != nil {
		return nil, fmt.Errorf("error reading matrix: %w", err)
	}
	entries, err := tabular.DecodeMatrix(s)
	if err != nil {
		return nil, fmt.Errorf("error decoding matrix %s: %w", path, err)
	}
	return entries, nil
}
