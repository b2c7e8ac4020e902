package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/riskbase/pkg/application/dto"
	"github.com/vsinha/riskbase/pkg/application/services/assembly"
	"github.com/vsinha/riskbase/pkg/application/services/classification"
	"github.com/vsinha/riskbase/pkg/application/services/pipeline"
	"github.com/vsinha/riskbase/pkg/application/services/shared"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
	"github.com/vsinha/riskbase/pkg/domain/services"
	"github.com/vsinha/riskbase/pkg/infrastructure/events"
)

// ErrNoBrandColumn is returned when the extract has no MARCA DE QM column:
// rows cannot be split by brand family without it.
var ErrNoBrandColumn = errors.New("inventory has no " + entities.ColMarcaQM + " column")

// EngineConfig holds the tunables of a processing run
type EngineConfig struct {
	// Workers > 1 processes contiguous row batches concurrently
	Workers int
	// Subsets maps each policy set to its tipo_matriz label
	Subsets entities.PolicySubsets
	// Catalog is the brand table; nil uses the built-in one
	Catalog *services.BrandCatalog
}

// FamilyInput is the rows of one brand family, ready to be processed.
type FamilyInput struct {
	Family  classification.Family
	Dataset *entities.Dataset
}

// RiskBaseService turns an inventory snapshot into the classified risk base
type RiskBaseService struct {
	config EngineConfig
	events events.EventStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRiskBaseService creates a service with default configuration
func NewRiskBaseService(eventStore events.EventStore, logger *zap.Logger) *RiskBaseService {
	return NewRiskBaseServiceWithConfig(EngineConfig{
		Workers: 1,
		Subsets: entities.DefaultPolicySubsets(),
	}, eventStore, logger)
}

// NewRiskBaseServiceWithConfig creates a service with custom configuration
func NewRiskBaseServiceWithConfig(config EngineConfig, eventStore events.EventStore, logger *zap.Logger) *RiskBaseService {
	if config.Catalog == nil {
		config.Catalog = services.DefaultBrandCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if eventStore == nil {
		eventStore = events.NewInMemoryEventStore(logger)
	}
	return &RiskBaseService{
		config: config,
		events: eventStore,
		logger: logger,
		now:    time.Now,
	}
}

// Events returns the store that receives the run audit trail
func (s *RiskBaseService) Events() events.EventStore {
	return s.events
}

// Process loads the snapshot and the policy matrix and runs them.
func (s *RiskBaseService) Process(
	ctx context.Context,
	inventoryRepo repositories.InventoryRepository,
	matrixRepo repositories.MatrixRepository,
) (*dto.RunResult, error) {
	ds, err := inventoryRepo.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	entries, err := matrixRepo.GetAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy matrix: %w", err)
	}
	return s.ProcessDataset(ctx, ds, entries)
}

// SplitByBrandFamily copies the AVON/NATURA rows and every other row into
// two datasets, keeping row order within each.
func SplitByBrandFamily(ds *entities.Dataset) (avonNatura, others *entities.Dataset) {
	var an, ob []*entities.InventoryRecord
	for _, r := range ds.Records {
		if classification.FamilyOf(r.Brand()) == classification.FamilyAvonNatura {
			an = append(an, r.Clone())
		} else {
			ob = append(ob, r.Clone())
		}
	}
	avonNatura = &entities.Dataset{Columns: append([]string(nil), ds.Columns...), Records: an}
	others = &entities.Dataset{Columns: append([]string(nil), ds.Columns...), Records: ob}
	return avonNatura, others
}

// ProcessDataset splits ds by brand family and processes both families.
// ds itself is not modified.
func (s *RiskBaseService) ProcessDataset(ctx context.Context, ds *entities.Dataset, entries []*entities.MatrixEntry) (*dto.RunResult, error) {
	if !ds.HasColumn(entities.ColMarcaQM) {
		runID := uuid.NewString()
		s.emit(events.NewRunFailedEvent(runID, ErrNoBrandColumn))
		return nil, ErrNoBrandColumn
	}
	avonNatura, others := SplitByBrandFamily(ds)
	return s.ProcessFamilies(ctx, []FamilyInput{
		{Family: classification.FamilyAvonNatura, Dataset: avonNatura},
		{Family: classification.FamilyOtherBrands, Dataset: others},
	}, entries)
}

// ProcessFamilies runs the pipeline and the family cascade over each input,
// fills the aggregate columns and assembles one canonical table. The inputs
// are modified in place. A schema mismatch between families fails the run.
func (s *RiskBaseService) ProcessFamilies(ctx context.Context, inputs []FamilyInput, entries []*entities.MatrixEntry) (*dto.RunResult, error) {
	runID := uuid.NewString()
	started := s.now()
	logger := s.logger.With(zap.String("run_id", runID))

	result, err := s.run(ctx, runID, inputs, entries, logger)
	if err != nil {
		s.emit(events.NewRunFailedEvent(runID, err))
		logger.Error("run failed", zap.Error(err))
		return nil, err
	}

	result.StartedAt = started
	result.CompletedAt = s.now()
	s.emit(events.NewRunCompletedEvent(runID, result.Table.Len(), result.Duration().Milliseconds(), result.Summary.TotalProv.String()))
	logger.Info("run completed",
		zap.Int("rows", result.Table.Len()),
		zap.String("provision", result.Summary.TotalProv.StringFixed(2)),
		zap.Duration("duration", result.Duration()))
	return result, nil
}

func (s *RiskBaseService) run(ctx context.Context, runID string, inputs []FamilyInput, entries []*entities.MatrixEntry, logger *zap.Logger) (*dto.RunResult, error) {
	index := shared.NewMatrixIndex(entries)
	for _, dup := range index.Duplicates() {
		logger.Warn("duplicate policy key, last entry wins", zap.String("key", dup.String()))
	}

	rows := 0
	for _, in := range inputs {
		rows += in.Dataset.Len()
	}
	s.emit(events.NewRunStartedEvent(runID, rows, index.Size(), s.config.Catalog.Version()))
	logger.Info("run started",
		zap.Int("rows", rows),
		zap.Int("matrix_entries", index.Size()),
		zap.String("catalog_version", s.config.Catalog.Version()))

	engine := classification.NewEngine(index, s.config.Subsets)

	result := &dto.RunResult{RunID: runID}
	parts := make([]assembly.Part, 0, len(inputs))
	for _, in := range inputs {
		family := in.Family.String()
		famLogger := logger.With(zap.String("family", family))

		p, err := pipeline.New(s.config.Catalog, s.config.Workers, famLogger)
		if err != nil {
			return nil, err
		}
		report, err := p.Run(ctx, in.Dataset)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", family, err)
		}

		summary := dto.FamilySummary{Family: family, Rows: in.Dataset.Len()}
		for _, step := range report.Skipped() {
			summary.SkippedSteps = append(summary.SkippedSteps, step.Name)
			s.emit(events.NewStepSkippedEvent(runID, family, step.Number, step.Name, step.Missing))
		}

		stats, err := classification.NewApplier(engine, s.config.Workers, famLogger).Apply(ctx, in.Family, in.Dataset)
		if err != nil {
			return nil, err
		}
		assembly.Aggregate(in.Dataset)

		summary.Lookups = stats.Lookups
		summary.LookupHits = stats.Hits
		summary.ByRule = stats.ByRule
		result.Families = append(result.Families, summary)
		s.emit(events.NewFamilyClassifiedEvent(runID, events.FamilyClassified{
			Family:  family,
			Rows:    stats.Rows,
			Lookups: stats.Lookups,
			Hits:    stats.Hits,
			ByRule:  stats.ByRule,
		}))

		parts = append(parts, assembly.Part{Name: family, Dataset: in.Dataset})
	}

	table, err := assembly.NewAssembler(logger).Assemble(parts...)
	if err != nil {
		return nil, err
	}
	result.Table = table
	result.Summary = assembly.Summarize(table)
	return result, nil
}

func (s *RiskBaseService) emit(e events.Event) {
	if err := s.events.AppendEvent(e.StreamID(), e); err != nil {
		s.logger.Warn("failed to record event", zap.String("type", e.Type()), zap.Error(err))
	}
}
