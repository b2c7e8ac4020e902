package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// MatrixRepository provides access to the risk policy matrix
type MatrixRepository interface {
	// GetAllEntries returns every policy row, normalised (upper case, factor as a fraction).
	GetAllEntries(ctx context.Context) ([]*entities.MatrixEntry, error)
}

// MatrixUpdate changes the factor and/or class of one policy row.
// FactorPercent is expressed in the 0-100 scale of the policy table.
type MatrixUpdate struct {
	PolicyID      int64
	FactorPercent *decimal.Decimal
	Clasificacion *string
}

// MatrixStore is a MatrixRepository that can also be edited.
type MatrixStore interface {
	MatrixRepository
	ReplaceEntries(ctx context.Context, entries []*entities.MatrixEntry) error
	UpdateEntries(ctx context.Context, updates []MatrixUpdate) (int, error)
}
