package memory

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/riskbase/pkg/application/dto"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
)

func mustEntry(t *testing.T, id int64, key, factor, class string) *entities.MatrixEntry {
	t.Helper()
	e, err := entities.NewMatrixEntry(id, key, "", "", decimal.RequireFromString(factor), class, "PAV")
	require.NoError(t, err)
	e.Cobertura = "1.COB < 3 MESES"
	return e
}

func TestInventoryRepository_StoreAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository()

	_, err := repo.LoadDataset(ctx)
	assert.EqualError(t, err, "no inventory snapshot loaded")
	assert.Error(t, repo.Store(nil))

	rec := &entities.InventoryRecord{MarcaQM: sql.NullString{String: "AVON", Valid: true}}
	ds, err := entities.NewDataset([]string{entities.ColMarcaQM}, []*entities.InventoryRecord{rec})
	require.NoError(t, err)
	require.NoError(t, repo.Store(ds))
	assert.Equal(t, 1, repo.Len())

	first, err := repo.LoadDataset(ctx)
	require.NoError(t, err)
	first.Records[0].MarcaConcat = "AVON"
	first.AddColumn(entities.ColMarcaConcat)

	second, err := repo.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Records[0].MarcaConcat, "loaded snapshots are independent copies")
	assert.False(t, second.HasColumn(entities.ColMarcaConcat))

	rec.MarcaQM.String = "NATURA"
	third, err := repo.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AVON", third.Records[0].MarcaQM.String, "stored snapshot is detached from the caller")
}

func TestMatrixRepository_UpdateEntries(t *testing.T) {
	ctx := context.Background()
	repo := NewMatrixRepository(2)
	require.NoError(t, repo.LoadEntries([]*entities.MatrixEntry{
		mustEntry(t, 1, "K1", "20", "MEDIO"),
		mustEntry(t, 2, "K2", "100", "ALTO"),
		nil,
	}))

	factor := decimal.NewFromInt(35)
	class := "alto"
	n, err := repo.UpdateEntries(ctx, []repositories.MatrixUpdate{
		{PolicyID: 1, FactorPercent: &factor},
		{PolicyID: 2, Clasificacion: &class},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	e1, err := repo.GetEntry(1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.35").Equal(e1.FactorProv))
	assert.Equal(t, entities.RiskClass("MEDIO"), e1.Clasificacion)
	assert.Equal(t, "1.COB < 3 MESES", e1.Cobertura, "auxiliary attributes survive an update")

	e2, err := repo.GetEntry(2)
	require.NoError(t, err)
	assert.Equal(t, entities.RiskClass("ALTO"), e2.Clasificacion)

	history := repo.History()
	require.Len(t, history, 1)
	assert.True(t, decimal.RequireFromString("0.2").Equal(history[0][0].FactorProv), "previous state is recoverable")
}

func TestMatrixRepository_UpdateEntries_Errors(t *testing.T) {
	ctx := context.Background()
	tooHigh := decimal.NewFromInt(101)

	tests := []struct {
		name     string
		update   repositories.MatrixUpdate
		expected string
	}{
		{"unknown_policy", repositories.MatrixUpdate{PolicyID: 9}, "policy not found: 9"},
		{"factor_out_of_range", repositories.MatrixUpdate{PolicyID: 1, FactorPercent: &tooHigh}, "policy 1: factor_prov must be between 0 and 100, got 101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMatrixRepository(1)
			require.NoError(t, repo.LoadEntries([]*entities.MatrixEntry{mustEntry(t, 1, "K1", "20", "MEDIO")}))

			_, err := repo.UpdateEntries(ctx, []repositories.MatrixUpdate{tt.update})
			assert.EqualError(t, err, tt.expected)
			assert.Empty(t, repo.History(), "failed updates leave no snapshot")

			e, err := repo.GetEntry(1)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString("0.2").Equal(e.FactorProv))
		})
	}
}

func TestMatrixRepository_ReplaceEntries(t *testing.T) {
	ctx := context.Background()
	repo := NewMatrixRepository(0)
	require.NoError(t, repo.LoadEntries([]*entities.MatrixEntry{mustEntry(t, 5, "OLD", "10", "BAJO")}))

	require.NoError(t, repo.ReplaceEntries(ctx, []*entities.MatrixEntry{
		mustEntry(t, 2, "B", "10", "BAJO"),
		mustEntry(t, 1, "A", "10", "BAJO"),
	}))

	all, err := repo.GetAllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Concatenado)
	assert.Equal(t, []int64{1, 2}, repo.PolicyIDs())

	_, err = repo.GetEntry(5)
	assert.Error(t, err)
	assert.Len(t, repo.History(), 1)
}

func TestResultRepository_SaveResults(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository()
	table := &dto.Table{Columns: []string{"A"}, Data: [][]any{{"x"}, {nil}}}

	_, err := repo.SaveResults(ctx, "", table)
	assert.Error(t, err)

	n, err := repo.SaveResults(ctx, "run-1", table)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	table.Data[0][0] = "changed"
	saved := repo.Tables()
	require.Len(t, saved, 1)
	assert.Equal(t, "x", saved[0].Rows[0][0])
}
