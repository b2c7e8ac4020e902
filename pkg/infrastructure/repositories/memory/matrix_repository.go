package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
)

// MatrixRepository provides in-memory policy matrix storage
type MatrixRepository struct {
	mu      sync.RWMutex
	entries []entities.MatrixEntry
	byID    map[int64]int
	history [][]entities.MatrixEntry
}

// NewMatrixRepository creates a new in-memory matrix repository
func NewMatrixRepository(expectedEntries int) *MatrixRepository {
	return &MatrixRepository{
		entries: make([]entities.MatrixEntry, 0, expectedEntries),
		byID:    make(map[int64]int, expectedEntries),
	}
}

// Verify interface compliance
var _ repositories.MatrixStore = (*MatrixRepository)(nil)

// LoadEntries appends entries to the repository
func (r *MatrixRepository) LoadEntries(entries []*entities.MatrixEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		if e == nil {
			continue
		}
		r.add(*e)
	}
	return nil
}

func (r *MatrixRepository) add(e entities.MatrixEntry) {
	if i, exists := r.byID[e.PolicyID]; exists {
		r.entries[i] = e
		return
	}
	r.byID[e.PolicyID] = len(r.entries)
	r.entries = append(r.entries, e)
}

// GetAllEntries returns copies of all entries in insertion order
func (r *MatrixRepository) GetAllEntries(ctx context.Context) ([]*entities.MatrixEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.MatrixEntry, len(r.entries))
	for i := range r.entries {
		e := r.entries[i]
		out[i] = &e
	}
	return out, nil
}

// GetEntry returns the entry with the given policy id
func (r *MatrixRepository) GetEntry(policyID int64) (*entities.MatrixEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, exists := r.byID[policyID]
	if !exists {
		return nil, fmt.Errorf("policy not found: %d", policyID)
	}
	e := r.entries[i]
	return &e, nil
}

// ReplaceEntries swaps the whole policy set
func (r *MatrixRepository) ReplaceEntries(ctx context.Context, entries []*entities.MatrixEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot()
	r.entries = r.entries[:0:0]
	r.byID = make(map[int64]int, len(entries))
	for _, e := range entries {
		if e != nil {
			r.add(*e)
		}
	}
	return nil
}

// UpdateEntries applies factor/class changes. The previous state is kept in
// History. Unknown policy ids fail the whole update.
func (r *MatrixRepository) UpdateEntries(ctx context.Context, updates []repositories.MatrixUpdate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	next := append([]entities.MatrixEntry(nil), r.entries...)
	for _, u := range updates {
		i, exists := r.byID[u.PolicyID]
		if !exists {
			return 0, fmt.Errorf("policy not found: %d", u.PolicyID)
		}
		e := next[i]
		factor := e.FactorPercent()
		if u.FactorPercent != nil {
			factor = *u.FactorPercent
		}
		class := string(e.Clasificacion)
		if u.Clasificacion != nil {
			class = *u.Clasificacion
		}
		updated, err := entities.NewMatrixEntry(e.PolicyID, e.Concatenado, e.Segmento, e.Permanencia, factor, class, string(e.TipoMatriz))
		if err != nil {
			return 0, fmt.Errorf("policy %d: %w", u.PolicyID, err)
		}
		updated.Subsegmento, updated.Negocio, updated.Estado, updated.Cobertura = e.Subsegmento, e.Negocio, e.Estado, e.Cobertura
		next[i] = *updated
	}

	r.snapshot()
	r.entries = next
	return len(updates), nil
}

func (r *MatrixRepository) snapshot() {
	r.history = append(r.history, append([]entities.MatrixEntry(nil), r.entries...))
}

// History returns the saved snapshots, oldest first
func (r *MatrixRepository) History() [][]entities.MatrixEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([][]entities.MatrixEntry, len(r.history))
	for i, h := range r.history {
		out[i] = append([]entities.MatrixEntry(nil), h...)
	}
	return out
}

// PolicyIDs returns all stored ids in ascending order
func (r *MatrixRepository) PolicyIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
