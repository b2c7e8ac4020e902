// Command riskbase classifies inventory extracts into the provisioning risk
// base and maintains the policy matrix.
//
// Commands:
//
//	process     Classify an inventory extract and export the result
//	matrices    List, import, export, update or restore the policy matrix
//	save        Store an exported risk base in the database
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsinha/riskbase/pkg/interfaces/cli/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "process":
		err = runProcess(ctx, os.Args[2:])
	case "matrices":
		err = runMatrices(ctx, os.Args[2:])
	case "save":
		err = runSave(ctx, os.Args[2:])
	case "help", "-h", "-help", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("riskbase - inventory risk base and provisioning")
	fmt.Println()
	fmt.Println("Usage: riskbase <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  process     Classify an inventory extract and export the result")
	fmt.Println("  matrices    Maintain the policy matrix (list, import, export, update, history, restore)")
	fmt.Println("  save        Store an exported risk base in the database")
	fmt.Println()
	fmt.Println("Run 'riskbase <command> -help' for the options of a command.")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  RISKBASE_DB         SQLite database path")
	fmt.Println("  RISKBASE_TEMP_DIR   Directory for exports when no -output is given")
	fmt.Println("  RISKBASE_LOG_LEVEL  debug, info, warn, error")
	fmt.Println("  RISKBASE_WORKERS    Concurrent row batches")
}

// commonFlags registers the flags shared by every command.
func commonFlags(fs *flag.FlagSet, c *commands.Common) {
	fs.StringVar(&c.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&c.EnvFile, "env", "", "Path to .env file (default: .env)")
	fs.StringVar(&c.Database, "db", "", "SQLite database path")
	fs.StringVar(&c.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&c.Help, "help", false, "Show help message")
}

func runProcess(ctx context.Context, args []string) error {
	var cfg commands.ProcessConfig
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	commonFlags(fs, &cfg.Common)
	fs.StringVar(&cfg.Input, "input", "", "Inventory extract (.csv or .xlsx)")
	fs.StringVar(&cfg.Format, "format", "", "Input format: csv, xlsx")
	fs.StringVar(&cfg.Encoding, "encoding", "", "CSV encoding: utf-8, windows-1252")
	fs.StringVar(&cfg.Delimiter, "delimiter", "", "CSV field separator")
	fs.StringVar(&cfg.Sheet, "sheet", "", "xlsx sheet to read")
	fs.StringVar(&cfg.MatrixFile, "matrix", "", "Policy matrix file (default: read from the database)")
	fs.StringVar(&cfg.MatrixFormat, "matrix-format", "", "Matrix file format: csv, xlsx")
	fs.StringVar(&cfg.MatrixSheet, "matrix-sheet", "", "Matrix xlsx sheet")
	fs.StringVar(&cfg.OutputDir, "output", "", "Output directory")
	fs.StringVar(&cfg.OutputFile, "out-file", "", "Output file name")
	fs.StringVar(&cfg.OutputFormat, "out-format", "", "Output format: text, json, csv, xlsx")
	fs.IntVar(&cfg.Workers, "workers", 0, "Concurrent row batches")
	fs.BoolVar(&cfg.Save, "save", false, "Also store the result in the database")
	fs.Parse(args)

	return commands.NewProcessCommand(cfg).Execute(ctx)
}

func runMatrices(ctx context.Context, args []string) error {
	var cfg commands.MatricesConfig
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cfg.Action = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("matrices", flag.ExitOnError)
	commonFlags(fs, &cfg.Common)
	fs.StringVar(&cfg.File, "file", "", "Matrix file for import/export")
	fs.StringVar(&cfg.Format, "format", "", "File format: csv, xlsx")
	fs.StringVar(&cfg.Sheet, "sheet", "", "xlsx sheet")
	fs.StringVar(&cfg.Encoding, "encoding", "", "CSV encoding")
	fs.StringVar(&cfg.Delimiter, "delimiter", "", "CSV field separator")
	fs.StringVar(&cfg.Type, "type", "", "tipo_matriz filter for list")
	fs.Int64Var(&cfg.PolicyID, "id", 0, "Policy id for update")
	fs.StringVar(&cfg.Factor, "factor", "", "New factor_prov (0-100)")
	fs.StringVar(&cfg.Clasificacion, "class", "", "New clasificacion")
	fs.StringVar(&cfg.Snapshot, "snapshot", "", "Snapshot id for restore")
	fs.Parse(args)

	return commands.NewMatricesCommand(cfg).Execute(ctx)
}

func runSave(ctx context.Context, args []string) error {
	var cfg commands.SaveConfig
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	commonFlags(fs, &cfg.Common)
	fs.StringVar(&cfg.File, "file", "", "Exported risk base (.csv or .xlsx)")
	fs.StringVar(&cfg.Format, "format", "", "File format: csv, xlsx")
	fs.StringVar(&cfg.Sheet, "sheet", "", "xlsx sheet")
	fs.StringVar(&cfg.Encoding, "encoding", "", "CSV encoding")
	fs.StringVar(&cfg.Delimiter, "delimiter", "", "CSV field separator")
	fs.StringVar(&cfg.RunID, "run-id", "", "Tag for the stored rows")
	fs.Parse(args)

	return commands.NewSaveCommand(cfg).Execute(ctx)
}
