package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
)

// Verify interface compliance
var _ repositories.MatrixStore = (*Store)(nil)

const selectMatrix = `
SELECT m.id_politica_base_riesgo, m.concatenado, m.segmento, m.permanencia,
       m.factor_prov, m.clasificacion, m.tipo_matriz,
       i.subsegmento, i.negocio, i.estado, i.cobertura
FROM MatrizBaseRiesgo m
INNER JOIN InventarioMatriz i ON i.id_politica_base_riesgo = m.id_politica_base_riesgo
ORDER BY m.id_politica_base_riesgo`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one joined policy row and normalises it.
func scanEntry(row rowScanner) (*entities.MatrixEntry, error) {
	var (
		id                                   int64
		concat                               string
		factor                               decimal.Decimal
		class                                string
		seg, perm, tipo, sub, neg, est, cobe sql.NullString
	)
	if err := row.Scan(&id, &concat, &seg, &perm, &factor, &class, &tipo, &sub, &neg, &est, &cobe); err != nil {
		return nil, err
	}
	e, err := entities.NewMatrixEntry(id, concat, seg.String, perm.String, factor, class, tipo.String)
	if err != nil {
		return nil, fmt.Errorf("policy %d: %w", id, err)
	}
	e.Subsegmento = entities.NormalizeText(sub.String)
	e.Negocio = entities.NormalizeText(neg.String)
	e.Estado = entities.NormalizeText(est.String)
	e.Cobertura = entities.NormalizeText(cobe.String)
	return e, nil
}

// GetAllEntries returns MatrizBaseRiesgo inner joined with InventarioMatriz.
// Policies without auxiliary attributes are not returned.
func (s *Store) GetAllEntries(ctx context.Context) ([]*entities.MatrixEntry, error) {
	rows, err := s.db.QueryContext(ctx, selectMatrix)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy matrix: %w", err)
	}
	defer rows.Close()

	var entries []*entities.MatrixEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policy matrix: %w", err)
	}
	return entries, nil
}

// ReplaceEntries snapshots the current matrix and replaces it with entries.
func (s *Store) ReplaceEntries(ctx context.Context, entries []*entities.MatrixEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snapshotID, n, err := snapshotMatrix(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+TableMatrixAux); err != nil {
		return fmt.Errorf("failed to clear %s: %w", TableMatrixAux, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+TableMatrix); err != nil {
		return fmt.Errorf("failed to clear %s: %w", TableMatrix, err)
	}
	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit matrix import: %w", err)
	}
	s.logger.Info("policy matrix replaced",
		zap.Int("entries", len(entries)),
		zap.String("snapshot_id", snapshotID),
		zap.Int("snapshot_rows", n))
	return nil
}

// InsertEntries adds entries without touching existing rows or history.
func (s *Store) InsertEntries(ctx context.Context, entries []*entities.MatrixEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEntries(ctx context.Context, tx *sql.Tx, entries []*entities.MatrixEntry) error {
	policy, err := tx.PrepareContext(ctx, `INSERT INTO MatrizBaseRiesgo
		(id_politica_base_riesgo, concatenado, segmento, permanencia, factor_prov, clasificacion, tipo_matriz)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare policy insert: %w", err)
	}
	defer policy.Close()

	aux, err := tx.PrepareContext(ctx, `INSERT INTO InventarioMatriz
		(id_politica_base_riesgo, subsegmento, negocio, estado, cobertura)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare attribute insert: %w", err)
	}
	defer aux.Close()

	for _, e := range entries {
		if e == nil {
			continue
		}
		if _, err := policy.ExecContext(ctx, e.PolicyID, e.Concatenado, e.Segmento, e.Permanencia,
			e.FactorPercent(), string(e.Clasificacion), string(e.TipoMatriz)); err != nil {
			return fmt.Errorf("failed to insert policy %d: %w", e.PolicyID, err)
		}
		if _, err := aux.ExecContext(ctx, e.PolicyID, e.Subsegmento, e.Negocio, e.Estado, e.Cobertura); err != nil {
			return fmt.Errorf("failed to insert attributes of policy %d: %w", e.PolicyID, err)
		}
	}
	return nil
}

// UpdateEntries changes factor and/or class by policy id. The whole matrix
// is copied to MatrizBaseRiesgoHist first; an unknown id or invalid value
// rolls back every change, the snapshot included.
func (s *Store) UpdateEntries(ctx context.Context, updates []repositories.MatrixUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, fmt.Errorf("no updates given")
	}
	for _, u := range updates {
		if u.FactorPercent == nil && u.Clasificacion == nil {
			return 0, fmt.Errorf("policy %d: nothing to update", u.PolicyID)
		}
		if f := u.FactorPercent; f != nil && (f.IsNegative() || f.GreaterThan(decimal.NewFromInt(100))) {
			return 0, fmt.Errorf("policy %d: factor_prov must be between 0 and 100, got %s", u.PolicyID, f.String())
		}
		if c := u.Clasificacion; c != nil && entities.NormalizeText(*c) == "" {
			return 0, fmt.Errorf("policy %d: clasificacion cannot be empty", u.PolicyID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snapshotID, _, err := snapshotMatrix(ctx, tx)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE MatrizBaseRiesgo
		SET factor_prov = COALESCE(?, factor_prov), clasificacion = COALESCE(?, clasificacion)
		WHERE id_politica_base_riesgo = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare update: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, u := range updates {
		var factor, class any
		if u.FactorPercent != nil {
			factor = *u.FactorPercent
		}
		if u.Clasificacion != nil {
			class = entities.NormalizeText(*u.Clasificacion)
		}
		res, err := stmt.ExecContext(ctx, factor, class, u.PolicyID)
		if err != nil {
			return 0, fmt.Errorf("failed to update policy %d: %w", u.PolicyID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, fmt.Errorf("policy not found: %d", u.PolicyID)
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit matrix update: %w", err)
	}
	s.logger.Info("policy matrix updated", zap.Int("updated", updated), zap.String("snapshot_id", snapshotID))
	return updated, nil
}

// snapshotMatrix copies every current policy row into the history table.
func snapshotMatrix(ctx context.Context, tx *sql.Tx) (string, int, error) {
	id := uuid.NewString()
	res, err := tx.ExecContext(ctx, `INSERT INTO MatrizBaseRiesgoHist
		(snapshot_id, fecha_registro, id_politica_base_riesgo, concatenado, segmento, permanencia,
		 factor_prov, clasificacion, tipo_matriz, subsegmento, negocio, estado, cobertura)
		SELECT ?, ?, m.id_politica_base_riesgo, m.concatenado, m.segmento, m.permanencia,
		       m.factor_prov, m.clasificacion, m.tipo_matriz,
		       i.subsegmento, i.negocio, i.estado, i.cobertura
		FROM MatrizBaseRiesgo m
		LEFT JOIN InventarioMatriz i ON i.id_politica_base_riesgo = m.id_politica_base_riesgo`,
		id, time.Now().UTC())
	if err != nil {
		return "", 0, fmt.Errorf("failed to snapshot policy matrix: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", 0, err
	}
	return id, int(n), nil
}

// Snapshot is one saved state of the policy matrix
type Snapshot struct {
	ID      string
	TakenAt time.Time
	Entries []*entities.MatrixEntry
}

// Snapshots returns the saved matrix states, oldest first.
func (s *Store) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot_id, fecha_registro, id_politica_base_riesgo, concatenado, segmento, permanencia,
		       factor_prov, clasificacion, tipo_matriz, subsegmento, negocio, estado, cobertura
		FROM MatrizBaseRiesgoHist
		ORDER BY hist_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matrix history: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	index := make(map[string]int)
	for rows.Next() {
		var (
			snapshotID string
			takenAt    time.Time
		)
		e, err := scanEntry(scannerFunc(func(dest ...any) error {
			return rows.Scan(append([]any{&snapshotID, &takenAt}, dest...)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		i, ok := index[snapshotID]
		if !ok {
			i = len(out)
			index[snapshotID] = i
			out = append(out, Snapshot{ID: snapshotID, TakenAt: takenAt})
		}
		out[i].Entries = append(out[i].Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matrix history: %w", err)
	}
	return out, nil
}

type scannerFunc func(dest ...any) error

func (f scannerFunc) Scan(dest ...any) error { return f(dest...) }

// RestoreSnapshot replaces the matrix with a saved state. The state being
// replaced is itself snapshotted.
func (s *Store) RestoreSnapshot(ctx context.Context, snapshotID string) error {
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return err
	}
	for _, snap := range snapshots {
		if snap.ID == snapshotID {
			return s.ReplaceEntries(ctx, snap.Entries)
		}
	}
	return fmt.Errorf("snapshot not found: %s", snapshotID)
}
