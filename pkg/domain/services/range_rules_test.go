package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsinha/riskbase/pkg/domain/entities"
)

func str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func num(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func date(y int, m time.Month, d int) entities.DateField {
	return entities.DateField{
		Time:   sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true},
		Parsed: true,
	}
}

func TestDurationBucket(t *testing.T) {
	tests := []struct {
		days     int64
		expected string
	}{
		{-500, BucketUpTo90},
		{0, BucketUpTo90},
		{90, BucketUpTo90},
		{91, Bucket90To180},
		{180, Bucket90To180},
		{181, Bucket180To270},
		{270, Bucket180To270},
		{360, Bucket270To360},
		{361, Bucket360To540},
		{540, Bucket360To540},
		{541, Bucket540To720},
		{720, Bucket540To720},
		{721, BucketOver720},
		{100000, BucketOver720},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DurationBucket(tt.days), "days=%d", tt.days)
	}
}

func TestDurationBucket_Partition(t *testing.T) {
	labels := DurationBuckets()
	assert.Len(t, labels, 7)

	counts := make(map[string]int)
	prev := -1
	for days := int64(-1000); days <= 2000; days++ {
		label := DurationBucket(days)
		idx := indexOf(labels, label)
		if !assert.GreaterOrEqual(t, idx, 0, "unknown label %q", label) {
			return
		}
		assert.GreaterOrEqual(t, idx, prev, "buckets must be monotonic at %d days", days)
		prev = idx
		counts[label]++
	}
	assert.Len(t, counts, 7, "every bucket is reachable")
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestPermanenceRange(t *testing.T) {
	tests := []struct {
		name        string
		lote        sql.NullString
		permanencia decimal.NullDecimal
		upstream    sql.NullString
		expected    sql.NullString
	}{
		{"lot_override", str(OverrideLot), num(900), str("7.MAYOR DE 720 DIAS"), str(BucketUpTo90)},
		{"lot_override_without_range", str(OverrideLot), num(10), sql.NullString{}, str(BucketUpTo90)},
		{"zero_permanence_top_bucket", str("L1"), num(0), str(TopPermanenceRange), str(Bucket360To540)},
		{"top_bucket_under_540", str("L1"), num(539), str(TopPermanenceRange), str(Bucket360To540)},
		{"top_bucket_at_540", str("L1"), num(540), str(TopPermanenceRange), str(Bucket540To720)},
		{"top_bucket_under_720", str("L1"), num(719), str(TopPermanenceRange), str(Bucket540To720)},
		{"top_bucket_at_720", str("L1"), num(720), str(TopPermanenceRange), str(BucketOver720)},
		{"top_bucket_null_permanence", str("L1"), decimal.NullDecimal{}, str(TopPermanenceRange), str(BucketOver720)},
		{"other_range_passes_through", str("L1"), num(900), str("2.ENTRE 90 Y 180 DIAS"), str("2.ENTRE 90 Y 180 DIAS")},
		{"null_range_passes_through", sql.NullString{}, num(900), sql.NullString{}, sql.NullString{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PermanenceRange(tt.lote, tt.permanencia, tt.upstream))
		})
	}
}

func TestConsumptionStatus(t *testing.T) {
	tests := []struct {
		name       string
		proxVencer sql.NullString
		blocked    decimal.NullDecimal
		obsolete   decimal.NullDecimal
		expected   entities.ConsumptionStatus
	}{
		{"expired_beats_everything", str(ExpiredRange), num(500), num(200), entities.StatusExpired},
		{"blocked_beats_obsolete", str(NearExpiry3Months), num(500), num(200), entities.StatusBlocked},
		{"obsolete_beats_near_expiry", str(NearExpiry3Months), num(0), num(200), entities.StatusObsolete},
		{"near_expiry_3_months", str(NearExpiry3Months), num(0), num(0), entities.StatusNearExpiry},
		{"near_expiry_4_to_6_months", str(NearExpiry4To6Month), num(0), num(0), entities.StatusNearExpiry},
		{"available", str("3.MAYOR A 6 MESES"), num(0), num(0), entities.StatusAvailable},
		{"negative_blocked_value", sql.NullString{}, num(-3), num(0), entities.StatusBlocked},
		{"null_values_count_as_zero", sql.NullString{}, decimal.NullDecimal{}, decimal.NullDecimal{}, entities.StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConsumptionStatus(tt.proxVencer, tt.blocked, tt.obsolete))
		})
	}
}

func TestRecordStatus(t *testing.T) {
	set := func(r *entities.InventoryRecord, col, raw string) {
		c, ok := entities.LookupColumn(col)
		require.True(t, ok)
		c.Set(r, raw)
	}

	tests := []struct {
		name     string
		blocked  string
		obsolete string
		expected entities.ConsumptionStatus
	}{
		{"blocked_placeholder", "#", "0", entities.StatusBlocked},
		{"obsolete_placeholder", "0", "#", entities.StatusObsolete},
		{"blocked_value", "300", "#", entities.StatusBlocked},
		{"empty_cells", "", "", entities.StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &entities.InventoryRecord{}
			set(r, entities.ColRangoProxVencerMM, "3.MAYOR A 6 MESES")
			set(r, entities.ColValorBloqueadoMM, tt.blocked)
			set(r, entities.ColValorObsoleto, tt.obsolete)
			assert.Equal(t, tt.expected, RecordStatus(r))
		})
	}

	r := &entities.InventoryRecord{}
	set(r, entities.ColValorBloqueadoMM, "#")
	r.ClearPlaceholders()
	assert.Equal(t, entities.StatusAvailable, RecordStatus(r), "after cleanup the cell is null")
}

func TestDefinitiveValue(t *testing.T) {
	assert.Equal(t, num(40), DefinitiveValue(entities.StatusBlocked, num(40), num(100)))
	assert.Equal(t, num(100), DefinitiveValue(entities.StatusObsolete, num(40), num(100)))
	assert.Equal(t, decimal.NullDecimal{}, DefinitiveValue(entities.StatusBlocked, decimal.NullDecimal{}, num(100)))
}

func TestAgingRange(t *testing.T) {
	entry := date(2024, 1, 1)

	tests := []struct {
		name     string
		status   entities.ConsumptionStatus
		gate     entities.ConsumptionStatus
		entry    entities.DateField
		event    entities.DateField
		expected string
	}{
		{"obsolete_92_days", entities.StatusObsolete, entities.StatusObsolete, entry, date(2023, 10, 1), Bucket90To180},
		{"event_after_entry_is_negative", entities.StatusObsolete, entities.StatusObsolete, entry, date(2024, 6, 1), BucketUpTo90},
		{"obsolete_over_720_days", entities.StatusObsolete, entities.StatusObsolete, entry, date(2021, 1, 1), BucketOver720},
		{"expired_over_720_days", entities.StatusExpired, entities.StatusExpired, entry, date(2021, 1, 1), BucketOver720},
		{"blocked_over_720_days", entities.StatusBlocked, entities.StatusBlocked, date(2025, 1, 1), date(2022, 1, 1), BlockedOver720},
		{"blocked_540_to_720", entities.StatusBlocked, entities.StatusBlocked, entry, date(2022, 6, 1), Bucket540To720},
		{"status_gate_fails", entities.StatusBlocked, entities.StatusObsolete, entry, date(2023, 10, 1), RangeNotApplies},
		{"missing_event_date", entities.StatusObsolete, entities.StatusObsolete, entry, entities.DateField{Parsed: true}, RangeNotApplies},
		{"missing_entry_date", entities.StatusObsolete, entities.StatusObsolete, entities.DateField{}, date(2023, 10, 1), RangeNotApplies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AgingRange(tt.status, tt.gate, tt.entry, tt.event))
		})
	}
}

func TestBlockDuration(t *testing.T) {
	assert.Equal(t, int64(31), BlockDuration(date(2024, 2, 1), date(2024, 1, 1)))
	assert.Equal(t, int64(-31), BlockDuration(date(2024, 1, 1), date(2024, 2, 1)))
	assert.Equal(t, int64(0), BlockDuration(date(2024, 1, 1), entities.DateField{}))
}

func TestConsolidatedRange(t *testing.T) {
	r := &entities.InventoryRecord{
		RangoPermanencia2:  str(Bucket180To270),
		RangoObsolescencia: Bucket90To180,
		RangoVencido2:      BucketOver720,
		RangoBloqueado2:    RangeNotApplies,
	}

	tests := []struct {
		status   entities.ConsumptionStatus
		expected sql.NullString
	}{
		{entities.StatusObsolete, str(Bucket90To180)},
		{entities.StatusExpired, str(BucketOver720)},
		{entities.StatusBlocked, str(RangeNotApplies)},
		{entities.StatusNearExpiry, str(Bucket180To270)},
		{entities.StatusAvailable, str(Bucket180To270)},
		{"", str(Bucket180To270)},
	}

	for _, tt := range tests {
		r.StatusCons = tt.status
		assert.Equal(t, tt.expected, ConsolidatedRange(r), "status=%q", tt.status)
	}

	r.StatusCons = entities.StatusObsolete
	r.RangoObsolescencia = ""
	assert.False(t, ConsolidatedRange(r).Valid, "a skipped range step yields null")
}
