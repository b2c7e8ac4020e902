package services

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// Duration bucket labels shared by the permanence, obsolescence, expiry and
// block ranges.
const (
	BucketUpTo90    = "1.MENOR DE 90 DIAS"
	Bucket90To180   = "2.ENTRE 90 Y 180 DIAS"
	Bucket180To270  = "3.ENTRE 180 Y 270 DIAS"
	Bucket270To360  = "4.ENTRE 270 Y 360 DIAS"
	Bucket360To540  = "5.ENTRE 360 Y 540 DIAS"
	Bucket540To720  = "6.ENTRE 540 Y 720 DIAS"
	BucketOver720   = "7.MAYOR DE 720 DIAS"
	RangeNotApplies = "FALSO"
)

// BlockedOver720 is the top label of RANGO BLOQUEADO 2. The blocked policy
// keys were written with "A" where every other range uses "DE".
const BlockedOver720 = "7.MAYOR A 720 DIAS"

// TopPermanenceRange is the open-ended upstream permanence bucket that the
// engine splits further using PERMANENCIA.
const TopPermanenceRange = "5.MAYOR O IGUAL A 360 DIAS"

// OverrideLot is the lot number whose permanence is always reported as the
// lowest bucket.
const OverrideLot = "222222"

// Near-expiry labels of RANGO PRÓX.VENCER MM. ExpiredRange marks stock past
// its expiry date.
const (
	NearExpiry3Months   = "1.PAV 3 MESES"
	NearExpiry4To6Month = "2.PAV 4 A 6 MESES"
	ExpiredRange        = "VENCIDO"
)

type bucket struct {
	upTo  int64
	label string
}

// Buckets are ordered; a value belongs to the first bucket whose upper bound
// it does not exceed.
var durationBuckets = []bucket{
	{90, BucketUpTo90},
	{180, Bucket90To180},
	{270, Bucket180To270},
	{360, Bucket270To360},
	{540, Bucket360To540},
	{720, Bucket540To720},
}

// DurationBuckets returns the seven bucket labels in ascending order.
func DurationBuckets() []string {
	labels := make([]string, 0, len(durationBuckets)+1)
	for _, b := range durationBuckets {
		labels = append(labels, b.label)
	}
	return append(labels, BucketOver720)
}

// DurationBucket places a day count in one of the seven ordered buckets.
// Negative counts fall in the first bucket.
func DurationBucket(days int64) string {
	for _, b := range durationBuckets {
		if days <= b.upTo {
			return b.label
		}
	}
	return BucketOver720
}

// DaysBetween returns a - b in whole days.
func DaysBetween(a, b time.Time) int64 {
	return int64(a.Sub(b) / (24 * time.Hour))
}

var (
	days540 = decimal.NewFromInt(540)
	days720 = decimal.NewFromInt(720)
)

// PermanenceRange computes RANGO DE PERMANENCIA 2 from the lot, the
// PERMANENCIA day count and the upstream range. A null PERMANENCIA in the top
// bucket lands in the last bucket.
func PermanenceRange(lote sql.NullString, permanencia decimal.NullDecimal, upstream sql.NullString) sql.NullString {
	if lote.Valid && lote.String == OverrideLot {
		return sql.NullString{String: BucketUpTo90, Valid: true}
	}
	if !upstream.Valid || upstream.String != TopPermanenceRange {
		return upstream
	}

	label := BucketOver720
	switch {
	case !permanencia.Valid:
	case permanencia.Decimal.IsZero():
		// stock entered this period but tagged with the top bucket
		label = Bucket360To540
	case permanencia.Decimal.LessThan(days540):
		label = Bucket360To540
	case permanencia.Decimal.LessThan(days720):
		label = Bucket540To720
	}
	return sql.NullString{String: label, Valid: true}
}

// ConsumptionStatus derives STATUS CONS. The first matching condition wins:
// expired, blocked value, obsolete value, near expiry, available. Null
// values count as zero.
func ConsumptionStatus(proxVencer sql.NullString, blocked, obsolete decimal.NullDecimal) entities.ConsumptionStatus {
	return consumptionStatus(proxVencer, holdsValue(blocked), holdsValue(obsolete))
}

// RecordStatus is ConsumptionStatus for a loaded row. A blocked or obsolete
// cell still holding the "#" placeholder counts as a value.
func RecordStatus(r *entities.InventoryRecord) entities.ConsumptionStatus {
	return consumptionStatus(r.RangoProxVencerMM,
		holdsValue(r.ValorBloqueadoMM) || r.HasPlaceholder(entities.ColValorBloqueadoMM),
		holdsValue(r.ValorObsoleto) || r.HasPlaceholder(entities.ColValorObsoleto))
}

func holdsValue(v decimal.NullDecimal) bool {
	return v.Valid && !v.Decimal.IsZero()
}

func consumptionStatus(proxVencer sql.NullString, blocked, obsolete bool) entities.ConsumptionStatus {
	switch {
	case proxVencer.Valid && proxVencer.String == ExpiredRange:
		return entities.StatusExpired
	case blocked:
		return entities.StatusBlocked
	case obsolete:
		return entities.StatusObsolete
	case IsNearExpiryRange(proxVencer.String):
		return entities.StatusNearExpiry
	default:
		return entities.StatusAvailable
	}
}

// IsNearExpiryRange reports whether a RANGO PRÓX.VENCER MM value is one of
// the near-expiry buckets.
func IsNearExpiryRange(s string) bool {
	return s == NearExpiry3Months || s == NearExpiry4To6Month
}

// DefinitiveValue is the blocked value for blocked stock and the total value
// otherwise.
func DefinitiveValue(status entities.ConsumptionStatus, blocked, total decimal.NullDecimal) decimal.NullDecimal {
	if status == entities.StatusBlocked {
		return blocked
	}
	return total
}

// AgingRange buckets entry - event in days when the row has the gating
// status and both dates are known. Otherwise it returns RangeNotApplies.
//
// The subtraction order matches the policy tables as they were built, which
// makes the usual case negative.
func AgingRange(status, gate entities.ConsumptionStatus, entry, event entities.DateField) string {
	if status != gate || !entry.Time.Valid || !event.Time.Valid {
		return RangeNotApplies
	}
	label := DurationBucket(DaysBetween(entry.Time.Time, event.Time.Time))
	if gate == entities.StatusBlocked && label == BucketOver720 {
		return BlockedOver720
	}
	return label
}

// BlockDuration is FECHA ENTRADA - FECHA BLOQUEADO in days, or 0 when either
// date is missing. Unlike RANGO BLOQUEADO 2 it ignores the status.
func BlockDuration(entry, blocked entities.DateField) int64 {
	if !entry.Time.Valid || !blocked.Time.Valid {
		return 0
	}
	return DaysBetween(entry.Time.Time, blocked.Time.Time)
}

// ConsolidatedRange selects RANGO CONS from the range matching the status.
func ConsolidatedRange(r *entities.InventoryRecord) sql.NullString {
	pick := func(s string) sql.NullString {
		if s == "" {
			return sql.NullString{}
		}
		return sql.NullString{String: s, Valid: true}
	}

	switch r.StatusCons {
	case entities.StatusObsolete:
		return pick(r.RangoObsolescencia)
	case entities.StatusExpired:
		return pick(r.RangoVencido2)
	case entities.StatusBlocked:
		return pick(r.RangoBloqueado2)
	default:
		return r.RangoPermanencia2
	}
}
