package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

func date(day int) types.Date {
	return types.NewDate(2026, time.January, day)
}

func TestDateRangeHalfOpen(t *testing.T) {
	rng := DateRange{From: date(10), To: date(15)}

	assert.True(t, rng.IsValid())
	assert.Equal(t, 5, rng.Nights())

	// Дата выезда не входит в интервал
	assert.True(t, rng.Contains(date(10)))
	assert.True(t, rng.Contains(date(14)))
	assert.False(t, rng.Contains(date(15)))

	// Пустой и перевернутый интервалы невалидны
	assert.False(t, DateRange{From: date(10), To: date(10)}.IsValid())
	assert.False(t, DateRange{From: date(15), To: date(10)}.IsValid())
}

func TestDateRangeOverlaps(t *testing.T) {
	rng := DateRange{From: date(10), To: date(15)}

	// Граничащие интервалы не пересекаются: выезд одного - заезд другого
	assert.False(t, rng.Overlaps(DateRange{From: date(15), To: date(20)}))
	assert.False(t, rng.Overlaps(DateRange{From: date(5), To: date(10)}))

	assert.True(t, rng.Overlaps(DateRange{From: date(14), To: date(20)}))
	assert.True(t, rng.Overlaps(DateRange{From: date(5), To: date(11)}))
	assert.True(t, rng.Overlaps(DateRange{From: date(11), To: date(12)}))
}

func TestDateRangeIntersect(t *testing.T) {
	rng := DateRange{From: date(10), To: date(15)}

	got, ok := rng.Intersect(DateRange{From: date(12), To: date(20)})
	assert.True(t, ok)
	assert.Equal(t, DateRange{From: date(12), To: date(15)}, got)

	_, ok = rng.Intersect(DateRange{From: date(15), To: date(20)})
	assert.False(t, ok)
}

func TestDateRangeDays(t *testing.T) {
	days := DateRange{From: date(10), To: date(13)}.Days()

	assert.Len(t, days, 3)
	assert.Equal(t, date(10), days[0])
	assert.Equal(t, date(12), days[2])

	assert.Empty(t, DateRange{From: date(13), To: date(10)}.Days())
}

func TestAvailabilityRecordOwnership(t *testing.T) {
	feedID := int64(7)
	rec := AvailabilityRecord{Status: DayBooked, Source: SourceSync, FeedID: &feedID}

	assert.True(t, rec.OwnedByFeed(7))
	assert.False(t, rec.OwnedByFeed(8))

	manual := AvailabilityRecord{Status: DayBlocked, Source: SourceManual}
	assert.False(t, manual.OwnedByFeed(7))
}

func TestSplitStayOptionLaws(t *testing.T) {
	requested := DateRange{From: date(1), To: date(15)}
	opt := SplitStayOption{
		Segments: []OptionSegment{
			{ApartmentID: 1, CheckIn: date(1), CheckOut: date(5)},
			{ApartmentID: 2, CheckIn: date(5), CheckOut: date(15)},
		},
	}

	assert.True(t, opt.CoversExactly(requested))
	assert.False(t, opt.ReusesApartment())

	// Зазор между сегментами нарушает закон разбиения
	gap := SplitStayOption{
		Segments: []OptionSegment{
			{ApartmentID: 1, CheckIn: date(1), CheckOut: date(5)},
			{ApartmentID: 2, CheckIn: date(6), CheckOut: date(15)},
		},
	}
	assert.False(t, gap.CoversExactly(requested))

	reuse := SplitStayOption{
		Segments: []OptionSegment{
			{ApartmentID: 1, CheckIn: date(1), CheckOut: date(5)},
			{ApartmentID: 1, CheckIn: date(5), CheckOut: date(15)},
		},
	}
	assert.True(t, reuse.ReusesApartment())
}
