package classification

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vsinha/riskbase/pkg/application/services/shared"
	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// Family selects which classification procedure applies to a row.
type Family int

const (
	FamilyAvonNatura Family = iota
	FamilyOtherBrands
)

// String method for Family
func (f Family) String() string {
	switch f {
	case FamilyAvonNatura:
		return "AVON_NATURA"
	case FamilyOtherBrands:
		return "OTHER_BRANDS"
	default:
		return "UNKNOWN"
	}
}

// AvonNaturaBrands are the MARCA DE QM values routed to the AVON/NATURA procedure.
var AvonNaturaBrands = []string{"AVON", "NATURA"}

// FamilyOf returns the family of a MARCA DE QM value.
func FamilyOf(brand string) Family {
	brand = entities.NormalizeText(brand)
	for _, b := range AvonNaturaBrands {
		if brand == b {
			return FamilyAvonNatura
		}
	}
	return FamilyOtherBrands
}

// Decision is the outcome of one cascade evaluation. Rule names the rule
// that matched; Key is the lookup key it built, if any.
type Decision struct {
	entities.Classification
	Rule string
	Key  string
	Hit  bool
}

var (
	low      = entities.DefaultClassification
	medium   = entities.NewClassification(0.2, entities.ClassMedium)
	veryHigh = entities.NewClassification(1.0, entities.ClassVeryHigh)
	days30   = decimal.NewFromInt(30)
)

// Engine evaluates the two priority cascades against a read-only matrix index.
type Engine struct {
	index   *shared.MatrixIndex
	subsets entities.PolicySubsets
}

// NewEngine creates an engine. subsets names the tipo_matriz used by each
// policy set; labels are normalised.
func NewEngine(index *shared.MatrixIndex, subsets entities.PolicySubsets) *Engine {
	if index == nil {
		index = shared.NewMatrixIndex(nil)
	}
	return &Engine{index: index, subsets: subsets.Normalized()}
}

// Index returns the matrix index the engine reads from.
func (e *Engine) Index() *shared.MatrixIndex {
	return e.index
}

// Classify runs the cascade for the given family.
func (e *Engine) Classify(f Family, r *entities.InventoryRecord) Decision {
	if f == FamilyAvonNatura {
		return e.ClassifyAvonNatura(r)
	}
	return e.ClassifyOtherBrands(r)
}

func fixed(rule string, c entities.Classification) Decision {
	return Decision{Classification: c, Rule: rule}
}

// lookup resolves key in subset t; a miss is the default classification.
func (e *Engine) lookup(rule string, t entities.MatrixType, key string) Decision {
	if c, ok := e.index.Lookup(t, key); ok {
		return Decision{Classification: c, Rule: rule, Key: key, Hit: true}
	}
	return Decision{Classification: low, Rule: rule, Key: key}
}

// rowView holds the trimmed fields the cascades read.
type rowView struct {
	segment    string
	subsegment string
	status     entities.ConsumptionStatus
	blockDays  int64
	perm       decimal.NullDecimal
	matType    string
	business   string
	indicator  string
	rangeCons  string
	coverage   string
	permRange2 string
	proxVencer string
	brand      string
}

func viewOf(r *entities.InventoryRecord) rowView {
	return rowView{
		segment:    strings.TrimSpace(r.Segmentacion),
		subsegment: strings.TrimSpace(r.Subsegmentacion),
		status:     r.StatusCons,
		blockDays:  r.TiempoBloqueo,
		perm:       r.Permanencia,
		matType:    strings.TrimSpace(r.TipoMaterialI.String),
		business:   strings.TrimSpace(r.NegocioInventarios.String),
		indicator:  strings.TrimSpace(r.IndicadorStockEspec.String),
		rangeCons:  strings.TrimSpace(r.RangoCons.String),
		coverage:   strings.TrimSpace(r.RangoCobertura.String),
		permRange2: strings.TrimSpace(r.RangoPermanencia2.String),
		proxVencer: strings.TrimSpace(r.RangoProxVencerMM.String),
		brand:      strings.TrimSpace(r.MarcaQM.String),
	}
}

// shortPermanence is PERMANENCIA <= 30; a null permanence never qualifies.
func (v rowView) shortPermanence() bool {
	return v.perm.Valid && v.perm.Decimal.LessThanOrEqual(days30)
}

func (v rowView) bulkMaterial() bool {
	return v.matType == "GRANEL" || v.matType == "GRANEL FAB A TERCERO"
}

func in(s string, set ...string) bool {
	for _, o := range set {
		if s == o {
			return true
		}
	}
	return false
}

// ClassifyAvonNatura evaluates the AVON/NATURA cascade. Lookups use the
// AVON/NATURA policy subset.
func (e *Engine) ClassifyAvonNatura(r *entities.InventoryRecord) Decision {
	v := viewOf(r)
	subset := e.subsets.AvonNatura

	if in(v.segment, "MARCAS PROPIAS", "EXPERTOS NO LOCALES", "DUEÑOS DE DEMANDA") &&
		v.status == entities.StatusBlocked && v.blockDays <= 30 {
		return fixed("AN1", low)
	}

	if v.status.In(entities.StatusAvailable, entities.StatusNearExpiry) && v.shortPermanence() && v.bulkMaterial() {
		return fixed("AN2", low)
	}

	if v.business == "FPT" {
		return e.lookup("AN3", subset, v.business+string(v.status)+v.rangeCons)
	}

	if v.indicator != "W" && v.status.In(entities.StatusObsolete, entities.StatusBlocked, entities.StatusExpired) {
		return e.lookup("AN4", subset, v.business+string(v.status)+v.rangeCons)
	}

	if v.indicator != "W" && v.status == entities.StatusAvailable {
		return e.lookup("AN5", subset, v.coverage+v.permRange2)
	}

	if in(v.brand, AvonNaturaBrands...) && v.status.In(entities.StatusExpired, entities.StatusObsolete, entities.StatusNearExpiry) {
		if v.rangeCons == "" || v.rangeCons[0] < '0' || v.rangeCons[0] > '9' {
			return fixed("AN6", low)
		}
		if v.rangeCons[0]-'0' > 4 {
			return fixed("AN6", veryHigh)
		}
		return fixed("AN6", medium)
	}

	return fixed("AN7", low)
}

// ClassifyOtherBrands evaluates the cascade for every brand outside
// AVON/NATURA.
func (e *Engine) ClassifyOtherBrands(r *entities.InventoryRecord) Decision {
	v := viewOf(r)
	status := string(v.status)

	if in(v.segment, "DUEÑOS DE CANAL", "MARCAS PROPIAS", "EXPERTOS NO LOCALES") &&
		v.status == entities.StatusBlocked && v.blockDays <= 30 {
		return fixed("OB1", low)
	}

	if v.indicator == "K" {
		return fixed("OB2", low)
	}

	if v.status.In(entities.StatusAvailable, entities.StatusNearExpiry) && v.bulkMaterial() && v.shortPermanence() {
		return fixed("OB3", low)
	}

	if v.brand == "OTRAS" || (v.status == entities.StatusAvailable && v.coverage == "") {
		return fixed("OB4", low)
	}

	if v.indicator == "W" {
		var key string
		switch v.status {
		case entities.StatusExpired, entities.StatusNearExpiry:
			key = v.segment + status + v.permRange2
		case entities.StatusAvailable:
			key = v.segment + v.coverage + v.permRange2
		default:
			key = v.segment + status + v.rangeCons
		}
		return e.lookup("OB5", e.subsets.StockW, key)
	}

	if in(v.indicator, "SIN ASIGNAR", "O") {
		if v.status == entities.StatusNearExpiry && in(v.proxVencer, "1.PAV 3 MESES", "2.PAV 4 A 6 MESES") {
			key := v.segment + v.subsegment + v.coverage + v.permRange2
			if d := e.lookup("OB6A", e.subsets.NearExpiry, key); d.Hit {
				return d
			}
		}

		if v.status == entities.StatusAvailable {
			key := v.segment + v.subsegment + v.coverage + v.permRange2
			if d := e.lookup("OB6B", e.subsets.Available, key); d.Hit {
				return d
			}
			return e.lookup("OB6B-AGED", e.subsets.Aged, v.segment+v.subsegment+status+" "+v.rangeCons)
		}

		if v.status.In(entities.StatusObsolete, entities.StatusExpired, entities.StatusBlocked) {
			return e.lookup("OB6C", e.subsets.Aged, v.segment+v.subsegment+status+" "+v.rangeCons)
		}
	}

	return fixed("OB7", low)
}
