package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
)

// InventoryRepository provides in-memory inventory snapshot storage
type InventoryRepository struct {
	mu      sync.RWMutex
	dataset *entities.Dataset
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// Store replaces the snapshot. The repository keeps its own copy.
func (r *InventoryRepository) Store(ds *entities.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dataset = ds.Clone()
	return nil
}

// LoadDataset returns a fresh copy of the stored snapshot
func (r *InventoryRepository) LoadDataset(ctx context.Context) (*entities.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.dataset == nil {
		return nil, fmt.Errorf("no inventory snapshot loaded")
	}
	return r.dataset.Clone(), nil
}

// Len returns the number of stored rows
func (r *InventoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.dataset == nil {
		return 0
	}
	return r.dataset.Len()
}
