// Package sqlite stores the risk policy matrix, its history and processed
// risk-base tables in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// Table names
const (
	TableMatrix     = "MatrizBaseRiesgo"
	TableMatrixAux  = "InventarioMatriz"
	TableMatrixHist = "MatrizBaseRiesgoHist"
	TableResults    = "InventarioBaseRiesgo"
)

// Result bookkeeping columns appended after the canonical ones.
const (
	ColRunID    = "run_id"
	ColLoadedAt = "fecha_carga"
)

// Config holds connection pool settings. Zero values use the defaults.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store is the SQLite backed matrix and result repository
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the database at path and creates missing tables.
func Open(path string, logger *zap.Logger) (*Store, error) {
	return OpenWithConfig(path, Config{}, logger)
}

// OpenWithConfig is Open with explicit pool settings
func OpenWithConfig(path string, config Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(1)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(1)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

const matrixSchema = `
CREATE TABLE IF NOT EXISTS MatrizBaseRiesgo (
	id_politica_base_riesgo INTEGER PRIMARY KEY,
	concatenado             TEXT NOT NULL,
	segmento                TEXT,
	permanencia             TEXT,
	factor_prov             DECIMAL(10, 2) NOT NULL,
	clasificacion           TEXT NOT NULL,
	tipo_matriz             TEXT
);

CREATE TABLE IF NOT EXISTS InventarioMatriz (
	id_inventario_matriz    INTEGER PRIMARY KEY AUTOINCREMENT,
	id_politica_base_riesgo INTEGER NOT NULL REFERENCES MatrizBaseRiesgo(id_politica_base_riesgo) ON DELETE CASCADE,
	subsegmento             TEXT,
	negocio                 TEXT,
	estado                  TEXT,
	cobertura               TEXT
);

CREATE INDEX IF NOT EXISTS idx_inventario_matriz_politica ON InventarioMatriz(id_politica_base_riesgo);

CREATE TABLE IF NOT EXISTS MatrizBaseRiesgoHist (
	hist_id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	snapshot_id             TEXT NOT NULL,
	fecha_registro          TIMESTAMP NOT NULL,
	id_politica_base_riesgo INTEGER NOT NULL,
	concatenado             TEXT,
	segmento                TEXT,
	permanencia             TEXT,
	factor_prov             DECIMAL(10, 2),
	clasificacion           TEXT,
	tipo_matriz             TEXT,
	subsegmento             TEXT,
	negocio                 TEXT,
	estado                  TEXT,
	cobertura               TEXT
);

CREATE INDEX IF NOT EXISTS idx_matriz_hist_snapshot ON MatrizBaseRiesgoHist(snapshot_id);
`

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, matrixSchema); err != nil {
		return fmt.Errorf("matrix tables: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, resultsSchema()); err != nil {
		return fmt.Errorf("results table: %w", err)
	}
	return nil
}

// resultsSchema declares one column per canonical column plus run bookkeeping.
func resultsSchema() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + TableResults + " (\n")
	b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	for _, c := range entities.CanonicalColumns {
		fmt.Fprintf(&b, "\t%s %s,\n", quoteIdent(c.Name), sqlType(c.Kind))
	}
	fmt.Fprintf(&b, "\t%s TEXT NOT NULL,\n", ColRunID)
	fmt.Fprintf(&b, "\t%s TIMESTAMP NOT NULL\n", ColLoadedAt)
	b.WriteString(");\n")
	fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS idx_resultados_run ON %s(%s);\n", TableResults, ColRunID)
	fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS idx_resultados_mes ON %s(%s);\n", TableResults, quoteIdent(entities.ColAnioMes))
	return b.String()
}

func sqlType(k entities.ColumnKind) string {
	switch k {
	case entities.KindDate:
		return "VARCHAR(10)"
	case entities.KindDecimal:
		return "DECIMAL(18, 6)"
	case entities.KindInteger:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
