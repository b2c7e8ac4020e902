package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vsinha/riskbase/pkg/application/services/shared"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/services"
	"go.uber.org/zap"
)

// StepResult records what happened to one step during a run.
type StepResult struct {
	Number   int
	Name     string
	Skipped  bool
	Missing  []string
	Affected int
}

// Report describes one pipeline run over a dataset.
type Report struct {
	Rows     int
	Steps    []StepResult
	Duration time.Duration
}

// Skipped returns the steps that did not run.
func (r Report) Skipped() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Skipped {
			out = append(out, s)
		}
	}
	return out
}

// Pipeline computes the derived columns of a dataset in place.
type Pipeline struct {
	catalog *services.BrandCatalog
	workers int
	logger  *zap.Logger
}

// New creates a pipeline using the given brand catalog. workers > 1 splits
// rows into concurrent batches; results are identical to a sequential run.
func New(catalog *services.BrandCatalog, workers int, logger *zap.Logger) (*Pipeline, error) {
	if catalog == nil {
		return nil, fmt.Errorf("brand catalog cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{catalog: catalog, workers: workers, logger: logger}, nil
}

// Run applies every step in order. Missing input columns never fail the run:
// the step is skipped, logged, and reported. Errors are returned only when
// ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, ds *entities.Dataset) (Report, error) {
	start := time.Now()
	report := Report{Rows: ds.Len()}

	for _, step := range steps {
		result := StepResult{Number: step.Number, Name: step.Name}

		if missing := ds.MissingColumns(step.Requires...); len(missing) > 0 {
			result.Skipped = true
			result.Missing = missing
			report.Steps = append(report.Steps, result)
			p.logger.Warn("pipeline step skipped",
				zap.Int("step", step.Number),
				zap.String("name", step.Name),
				zap.Strings("missing_columns", missing))
			continue
		}

		var affected atomic.Int64
		err := shared.ForEachBatch(ctx, ds.Len(), p.workers, func(lo, hi int) error {
			n := 0
			for _, r := range ds.Records[lo:hi] {
				n += step.apply(p.catalog, r)
			}
			affected.Add(int64(n))
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("pipeline step %d (%s): %w", step.Number, step.Name, err)
		}

		for _, col := range step.Produces {
			ds.AddColumn(col)
		}
		result.Affected = int(affected.Load())
		report.Steps = append(report.Steps, result)

		if result.Affected > 0 {
			p.logger.Debug("pipeline step applied",
				zap.Int("step", step.Number),
				zap.String("name", step.Name),
				zap.Int("affected", result.Affected))
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}
