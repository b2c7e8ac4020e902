package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatrixType is the tipo_matriz discriminator stored with each policy row.
type MatrixType string

// PolicySubsets names the tipo_matriz value used by each policy set the
// classification engine consults. Deployments whose policy table uses other
// labels override them through configuration.
type PolicySubsets struct {
	AvonNatura MatrixType `yaml:"avon_natura"`
	StockW     MatrixType `yaml:"stock_w"`
	NearExpiry MatrixType `yaml:"near_expiry"`
	Available  MatrixType `yaml:"available"`
	Aged       MatrixType `yaml:"aged"` // obsolete, blocked and expired stock
}

// DefaultPolicySubsets returns the labels used by the reference policy table.
func DefaultPolicySubsets() PolicySubsets {
	return PolicySubsets{
		AvonNatura: "AVON NATURA",
		StockW:     "STOCK W",
		NearExpiry: "PAV",
		Available:  "DISPONIBLE",
		Aged:       "OBSOLETO BLOQUEADO VENCIDO",
	}
}

// Normalized returns a copy with every label passed through NormalizeText.
func (p PolicySubsets) Normalized() PolicySubsets {
	n := func(t MatrixType) MatrixType { return MatrixType(NormalizeText(string(t))) }
	return PolicySubsets{
		AvonNatura: n(p.AvonNatura),
		StockW:     n(p.StockW),
		NearExpiry: n(p.NearExpiry),
		Available:  n(p.Available),
		Aged:       n(p.Aged),
	}
}

// MatrixEntry is one row of the risk policy: MatrizBaseRiesgo joined with
// its InventarioMatriz attributes.
type MatrixEntry struct {
	PolicyID      int64
	Concatenado   string
	Segmento      string
	Permanencia   string
	FactorProv    decimal.Decimal // fraction in [0,1]
	Clasificacion RiskClass
	TipoMatriz    MatrixType

	Subsegmento string
	Negocio     string
	Estado      string
	Cobertura   string
}

var hundred = decimal.NewFromInt(100)

// NewMatrixEntry creates a validated MatrixEntry. factorPercent is the value
// as stored in the policy table (0-100); it is divided by 100 here. Text
// fields are normalised so keys compare case-insensitively.
func NewMatrixEntry(policyID int64, concatenado, segmento, permanencia string, factorPercent decimal.Decimal, clasificacion string, tipo string) (*MatrixEntry, error) {
	key := NormalizeText(concatenado)
	if key == "" {
		return nil, fmt.Errorf("concatenado cannot be empty")
	}
	if factorPercent.IsNegative() || factorPercent.GreaterThan(hundred) {
		return nil, fmt.Errorf("factor_prov must be between 0 and 100, got %s", factorPercent.String())
	}
	class := NormalizeText(clasificacion)
	if class == "" {
		return nil, fmt.Errorf("clasificacion cannot be empty")
	}

	return &MatrixEntry{
		PolicyID:      policyID,
		Concatenado:   key,
		Segmento:      NormalizeText(segmento),
		Permanencia:   NormalizeText(permanencia),
		FactorProv:    factorPercent.Div(hundred),
		Clasificacion: RiskClass(class),
		TipoMatriz:    MatrixType(NormalizeText(tipo)),
	}, nil
}

// FactorPercent returns the factor in the 0-100 scale used by the policy table.
func (m *MatrixEntry) FactorPercent() decimal.Decimal {
	return m.FactorProv.Mul(hundred)
}

// Classification returns the (factor, class) pair this entry resolves to.
func (m *MatrixEntry) Classification() Classification {
	return Classification{Factor: m.FactorProv, Class: m.Clasificacion}
}
