package domain

import "github.com/colivehq/CLH-AvailabilityService/pkg/types"

// FreeInterval максимальный непрерывный свободный интервал одного апартамента
type FreeInterval struct {
	ApartmentID int64
	Range       DateRange
}

// OptionSegment сегмент варианта split-stay: проживание в одном апартаменте
type OptionSegment struct {
	ApartmentID    int64
	ApartmentTitle string
	CheckIn        types.Date
	CheckOut       types.Date
	Price          float64 // ставка за ночь * количество ночей
}

// SplitStayOption вариант размещения с переездами: упорядоченные сегменты,
// вместе покрывающие запрошенный интервал ровно один раз (разбиение без
// зазоров и пересечений). Один апартамент не используется дважды.
type SplitStayOption struct {
	Segments   []OptionSegment
	TotalPrice float64
}

// SegmentCount возвращает количество переездов-сегментов в варианте
func (o *SplitStayOption) SegmentCount() int {
	return len(o.Segments)
}

// CoversExactly проверяет закон разбиения: сегменты по порядку покрывают
// requested без зазоров и пересечений, стыкуясь по дате выезда
func (o *SplitStayOption) CoversExactly(requested DateRange) bool {
	if len(o.Segments) == 0 {
		return false
	}
	if !o.Segments[0].CheckIn.Equal(requested.From) {
		return false
	}
	for i := 1; i < len(o.Segments); i++ {
		if !o.Segments[i-1].CheckOut.Equal(o.Segments[i].CheckIn) {
			return false
		}
	}
	return o.Segments[len(o.Segments)-1].CheckOut.Equal(requested.To)
}

// ReusesApartment проверяет, что какой-то апартамент встречается в варианте дважды
func (o *SplitStayOption) ReusesApartment() bool {
	seen := make(map[int64]struct{}, len(o.Segments))
	for _, s := range o.Segments {
		if _, ok := seen[s.ApartmentID]; ok {
			return true
		}
		seen[s.ApartmentID] = struct{}{}
	}
	return false
}
