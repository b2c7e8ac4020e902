package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vsinha/riskbase/pkg/application/dto"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/excel"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

// FilePrefix is the stem of the default export file name.
const FilePrefix = "Analisis_BaseRiesgo_Final_"

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	TempDir   string // csv/xlsx exports land here when OutputDir is empty
	FileName  string // empty: DefaultFileName
	Verbose   bool
	Date      time.Time
	// CSV is the writer used for csv exports; nil uses a UTF-8 comma loader
	CSV    *csv.Loader
	Stdout io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// DefaultFileName returns Analisis_BaseRiesgo_Final_<DD-MM-YYYY>.<ext>
func DefaultFileName(date time.Time, ext string) string {
	return FilePrefix + date.Format("02-01-2006") + "." + ext
}

func extension(format string) string {
	if format == "text" {
		return "txt"
	}
	return format
}

// Path returns the file the export is written to, or "" when the format
// prints to stdout only.
func (c Config) Path() string {
	if c.OutputDir == "" && (c.Format == "text" || c.Format == "json") {
		return ""
	}
	dir := c.OutputDir
	if dir == "" {
		dir = c.TempDir
	}
	name := c.FileName
	if name == "" {
		date := c.Date
		if date.IsZero() {
			date = time.Now()
		}
		name = DefaultFileName(date, extension(c.Format))
	}
	return filepath.Join(dir, name)
}

// Generate renders the run result in the configured format and returns the
// file written, if any.
func Generate(result *dto.RunResult, config Config) (string, error) {
	path := config.Path()
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", fmt.Errorf("failed to create output directory: %w", err)
			}
		}
	}

	var err error
	switch config.Format {
	case "text":
		err = generateTextOutput(result, config, path)
	case "json":
		err = generateJSONOutput(result, config, path)
	case "csv":
		loader := config.CSV
		if loader == nil {
			loader = csv.NewLoader()
		}
		err = loader.WriteTable(path, result.Table)
	case "xlsx":
		err = excel.NewWorkbook(excel.ResultSheet).WriteTable(path, result.Table)
	default:
		return "", fmt.Errorf("unsupported output format: %s", config.Format)
	}
	if err != nil {
		return "", err
	}

	if path != "" && config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 Results saved to: %s\n", path)
	}
	return path, nil
}

func generateTextOutput(result *dto.RunResult, config Config, path string) error {
	text := RenderSummary(result)
	fmt.Fprint(config.stdout(), text)

	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}
	return nil
}

// RenderSummary formats the run summary as a human-readable report.
func RenderSummary(result *dto.RunResult) string {
	var b strings.Builder
	s := result.Summary

	b.WriteString("═══════════════════════════════════════════════════════════════\n")
	b.WriteString("                    RISK BASE RESULTS\n")
	b.WriteString("═══════════════════════════════════════════════════════════════\n\n")

	fmt.Fprintf(&b, "📊 SUMMARY\n")
	fmt.Fprintf(&b, "  Run:        %s\n", result.RunID)
	fmt.Fprintf(&b, "  Rows:       %d\n", s.Rows)
	fmt.Fprintf(&b, "  Value:      %s\n", s.TotalValue.StringFixed(2))
	fmt.Fprintf(&b, "  Risk base:  %s\n", s.TotalBase.StringFixed(2))
	fmt.Fprintf(&b, "  Provision:  %s\n", s.TotalProv.StringFixed(2))
	if d := result.Duration(); d > 0 {
		fmt.Fprintf(&b, "  Duration:   %v\n", d)
	}
	b.WriteString("\n")

	if len(result.Families) > 0 {
		b.WriteString("🏷️  FAMILIES\n")
		b.WriteString("────────────────────────────────────────────────────────────────\n")
		for _, f := range result.Families {
			fmt.Fprintf(&b, "%-14s rows: %6d  lookups: %6d  hits: %6d\n", f.Family, f.Rows, f.Lookups, f.LookupHits)
			if len(f.SkippedSteps) > 0 {
				fmt.Fprintf(&b, "  skipped steps: %s\n", strings.Join(f.SkippedSteps, ", "))
			}
		}
		b.WriteString("\n")
	}

	writeTotals(&b, "📋 BY CLASS", "Class", s.ByClass)
	writeTotals(&b, "📦 BY SEGMENT", "Segment", s.BySegment)
	return b.String()
}

func writeTotals(b *strings.Builder, title, label string, totals map[string]*dto.ClassTotals) {
	if len(totals) == 0 {
		return
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "%s\n", title)
	fmt.Fprintf(b, "%-28s %8s %18s %18s %18s\n", label, "Rows", "Valor def", "Base riesgo", "Provision")
	fmt.Fprintf(b, "%-28s %8s %18s %18s %18s\n",
		"----------------------------", "--------", "------------------", "------------------", "------------------")
	for _, k := range keys {
		t := totals[k]
		name := k
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(b, "%-28s %8d %18s %18s %18s\n",
			name, t.Rows, t.ValorDef.StringFixed(2), t.BaseRiesgo.StringFixed(2), t.Provision.StringFixed(2))
	}
	b.WriteString("\n")
}

// jsonResult is the document written by the json format. Cells are rendered
// as text so decimals keep their exact value.
type jsonResult struct {
	RunID       string              `json:"run_id"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at"`
	Families    []dto.FamilySummary `json:"families"`
	Summary     dto.RunSummary      `json:"summary"`
	Columns     []string            `json:"columns"`
	Rows        [][]*string         `json:"rows"`
}

func generateJSONOutput(result *dto.RunResult, config Config, path string) error {
	doc := jsonResult{
		RunID:       result.RunID,
		StartedAt:   result.StartedAt,
		CompletedAt: result.CompletedAt,
		Families:    result.Families,
		Summary:     result.Summary,
		Columns:     result.Table.Columns,
		Rows:        make([][]*string, len(result.Table.Data)),
	}
	for i, row := range result.Table.Data {
		cells := make([]*string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			s := tabular.FormatCell(v)
			cells[j] = &s
		}
		doc.Rows[i] = cells
	}

	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if path == "" {
		fmt.Fprintln(config.stdout(), string(jsonData))
		return nil
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}
