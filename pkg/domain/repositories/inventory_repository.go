package repositories

import (
	"context"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// InventoryRepository provides access to inventory cube snapshots
type InventoryRepository interface {
	// LoadDataset returns a fresh copy of the current snapshot. Callers may
	// add derived columns to it without affecting the repository.
	LoadDataset(ctx context.Context) (*entities.Dataset, error)
}
