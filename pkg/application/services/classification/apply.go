package classification

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/riskbase/pkg/application/services/shared"
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"go.uber.org/zap"
)

// Stats summarises the decisions taken for one dataset.
type Stats struct {
	Family  Family
	Rows    int
	Lookups int
	Hits    int
	ByRule  map[string]int
	ByClass map[entities.RiskClass]int
}

func newStats(f Family) Stats {
	return Stats{
		Family:  f,
		ByRule:  make(map[string]int),
		ByClass: make(map[entities.RiskClass]int),
	}
}

func (s *Stats) add(d Decision) {
	s.Rows++
	s.ByRule[d.Rule]++
	s.ByClass[d.Class]++
	if d.Key != "" {
		s.Lookups++
		if d.Hit {
			s.Hits++
		}
	}
}

func (s *Stats) merge(o Stats) {
	s.Rows += o.Rows
	s.Lookups += o.Lookups
	s.Hits += o.Hits
	for k, v := range o.ByRule {
		s.ByRule[k] += v
	}
	for k, v := range o.ByClass {
		s.ByClass[k] += v
	}
}

// Applier writes FACTOR PROV and CLAS BASE RIESGO onto every row of a
// dataset.
type Applier struct {
	engine  *Engine
	workers int
	logger  *zap.Logger
}

// NewApplier creates an applier. workers > 1 classifies contiguous row
// batches concurrently.
func NewApplier(engine *Engine, workers int, logger *zap.Logger) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{engine: engine, workers: workers, logger: logger}
}

// Apply classifies every row of ds with the family's cascade.
func (a *Applier) Apply(ctx context.Context, f Family, ds *entities.Dataset) (Stats, error) {
	total := newStats(f)
	var mu sync.Mutex

	err := shared.ForEachBatch(ctx, ds.Len(), a.workers, func(lo, hi int) error {
		local := newStats(f)
		for i := lo; i < hi; i++ {
			r := ds.Records[i]
			d := a.engine.Classify(f, r)
			r.FactorProv = d.Factor
			r.ClasBaseRiesgo = d.Class
			local.add(d)
			if d.Key != "" && !d.Hit {
				a.logger.Debug("matrix lookup miss",
					zap.String("family", f.String()),
					zap.String("rule", d.Rule),
					zap.String("key", d.Key),
					zap.Int("row", i))
			}
		}
		mu.Lock()
		total.merge(local)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("classifying %s rows: %w", f, err)
	}

	ds.AddColumn(entities.ColFactorProv)
	ds.AddColumn(entities.ColClasBaseRiesgo)

	a.logger.Info("rows classified",
		zap.String("family", f.String()),
		zap.Int("rows", total.Rows),
		zap.Int("lookups", total.Lookups),
		zap.Int("hits", total.Hits))
	return total, nil
}
