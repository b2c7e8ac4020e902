package entities

import "github.com/shopspring/decimal"

// ConsumptionStatus is the STATUS CONS of a row
type ConsumptionStatus string

const (
	StatusExpired    ConsumptionStatus = "VENCIDO"
	StatusBlocked    ConsumptionStatus = "BLOQUEADO"
	StatusObsolete   ConsumptionStatus = "OBSOLETO"
	StatusNearExpiry ConsumptionStatus = "PAV"
	StatusAvailable  ConsumptionStatus = "DISPONIBLE"
)

// String method for ConsumptionStatus
func (s ConsumptionStatus) String() string {
	return string(s)
}

// In reports whether s is one of the given statuses.
func (s ConsumptionStatus) In(statuses ...ConsumptionStatus) bool {
	for _, o := range statuses {
		if s == o {
			return true
		}
	}
	return false
}

// RiskClass is the risk tier assigned by the classification engine
type RiskClass string

const (
	ClassLow      RiskClass = "BAJO"
	ClassMedium   RiskClass = "MEDIO"
	ClassHigh     RiskClass = "ALTO"
	ClassVeryHigh RiskClass = "MUY ALTO"
)

// String method for RiskClass
func (c RiskClass) String() string {
	return string(c)
}

// Classification is the (provision factor, risk class) pair produced for a row.
// Factor is a fraction in [0,1].
type Classification struct {
	Factor decimal.Decimal
	Class  RiskClass
}

// DefaultClassification is returned whenever no rule or matrix entry applies.
var DefaultClassification = Classification{Factor: decimal.Zero, Class: ClassLow}

// NewClassification builds a Classification from a fractional factor.
func NewClassification(factor float64, class RiskClass) Classification {
	return Classification{Factor: decimal.NewFromFloat(factor), Class: class}
}

// Equal compares factor numerically and class exactly.
func (c Classification) Equal(o Classification) bool {
	return c.Class == o.Class && c.Factor.Equal(o.Factor)
}
