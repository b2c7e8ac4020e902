package pipeline

import (
	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/services"
)

// Step is one derived-column computation. Steps run in Number order; a step
// whose Requires columns are absent from the dataset is skipped.
type Step struct {
	Number   int
	Name     string
	Requires []string
	Produces []string

	// apply updates one row and returns how many cells it touched in a way
	// worth reporting (placeholders cleared, dates that failed to parse).
	apply func(c *services.BrandCatalog, r *entities.InventoryRecord) int
}

var steps = []Step{
	{
		Number:   1,
		Name:     "brand enrichment",
		Requires: []string{entities.ColMarcaQM},
		Produces: []string{entities.ColMarcaConcat, entities.ColSegmentacion, entities.ColSubsegmentacion},
		apply: func(c *services.BrandCatalog, r *entities.InventoryRecord) int {
			info := c.Lookup(r.Brand())
			r.MarcaConcat = info.Concat
			r.Segmentacion = info.Segmentacion
			r.Subsegmentacion = info.Subsegmentacion
			return 0
		},
	},
	{
		Number:   2,
		Name:     "permanence range",
		Requires: []string{entities.ColLote, entities.ColPermanencia, entities.ColRangoPermanencia},
		Produces: []string{entities.ColRangoPermanencia2},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.RangoPermanencia2 = services.PermanenceRange(r.Lote, r.Permanencia, r.RangoPermanencia)
			return 0
		},
	},
	{
		Number:   3,
		Name:     "consumption status",
		Requires: []string{entities.ColRangoProxVencerMM, entities.ColValorBloqueadoMM, entities.ColValorObsoleto},
		Produces: []string{entities.ColStatusCons},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.StatusCons = services.RecordStatus(r)
			return 0
		},
	},
	{
		Number:   4,
		Name:     "definitive value",
		Requires: []string{entities.ColStatusCons, entities.ColValorBloqueadoMM, entities.ColValorTotalMM},
		Produces: []string{entities.ColValorDef},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.ValorDef = services.DefinitiveValue(r.StatusCons, r.ValorBloqueadoMM, r.ValorTotalMM)
			return 0
		},
	},
	{
		Number: 5,
		Name:   "placeholder cleanup",
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			return r.ClearPlaceholders()
		},
	},
	{
		Number: 6,
		Name:   "date parsing",
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			failed := 0
			for _, d := range r.Dates() {
				d.Parse()
				if d.Raw.Valid && !d.Time.Valid {
					failed++
				}
			}
			return failed
		},
	},
	{
		Number:   7,
		Name:     "obsolescence range",
		Produces: []string{entities.ColRangoObsolescencia},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.RangoObsolescencia = services.AgingRange(r.StatusCons, entities.StatusObsolete, r.FechaEntrada, r.FechaObsoleto)
			return 0
		},
	},
	{
		Number:   8,
		Name:     "expired range",
		Produces: []string{entities.ColRangoVencido2},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.RangoVencido2 = services.AgingRange(r.StatusCons, entities.StatusExpired, r.FechaEntrada, r.FechCaducidad)
			return 0
		},
	},
	{
		Number:   9,
		Name:     "blocked range",
		Produces: []string{entities.ColRangoBloqueado2},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.RangoBloqueado2 = services.AgingRange(r.StatusCons, entities.StatusBlocked, r.FechaEntrada, r.FechaBloqueado)
			return 0
		},
	},
	{
		Number:   10,
		Name:     "consolidated range",
		Produces: []string{entities.ColRangoCons},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.RangoCons = services.ConsolidatedRange(r)
			return 0
		},
	},
	{
		Number:   11,
		Name:     "block duration",
		Produces: []string{entities.ColTiempoBloqueo},
		apply: func(_ *services.BrandCatalog, r *entities.InventoryRecord) int {
			r.TiempoBloqueo = services.BlockDuration(r.FechaEntrada, r.FechaBloqueado)
			return 0
		},
	},
}

// Steps returns the pipeline steps in execution order.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
