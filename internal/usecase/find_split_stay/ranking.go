package find_split_stay

import (
	"sort"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

// Названия настраиваемых критериев ранжирования
const (
	TieBreakPrice    = "price"
	TieBreakPriority = "priority"
)

// DefaultTieBreaks порядок критериев по умолчанию: дешевле, затем приоритетнее
var DefaultTieBreaks = []string{TieBreakPrice, TieBreakPriority}

// rankOptions сортирует варианты: меньше переездов - выше, затем по цепочке
// настраиваемых критериев. Последним всегда сравнение по ID апартаментов,
// чтобы выдача была детерминированной.
func rankOptions(options []*domain.SplitStayOption, apartments map[int64]*domain.Apartment, tieBreaks []string) {
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]

		if a.SegmentCount() != b.SegmentCount() {
			return a.SegmentCount() < b.SegmentCount()
		}

		for _, tb := range tieBreaks {
			switch tb {
			case TieBreakPrice:
				if a.TotalPrice != b.TotalPrice {
					return a.TotalPrice < b.TotalPrice
				}
			case TieBreakPriority:
				if c := comparePriority(a, b, apartments); c != 0 {
					return c < 0
				}
			}
		}

		return compareApartmentIDs(a, b) < 0
	})
}

// comparePriority лексикографически сравнивает приоритеты апартаментов
// по сегментам (меньший SortOrder - выше приоритет)
func comparePriority(a, b *domain.SplitStayOption, apartments map[int64]*domain.Apartment) int {
	n := a.SegmentCount()
	if b.SegmentCount() < n {
		n = b.SegmentCount()
	}

	for i := 0; i < n; i++ {
		pa := apartments[a.Segments[i].ApartmentID].SortOrder
		pb := apartments[b.Segments[i].ApartmentID].SortOrder
		if pa != pb {
			if pa < pb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// compareApartmentIDs лексикографически сравнивает варианты по ID апартаментов
func compareApartmentIDs(a, b *domain.SplitStayOption) int {
	n := a.SegmentCount()
	if b.SegmentCount() < n {
		n = b.SegmentCount()
	}

	for i := 0; i < n; i++ {
		ia, ib := a.Segments[i].ApartmentID, b.Segments[i].ApartmentID
		if ia != ib {
			if ia < ib {
				return -1
			}
			return 1
		}
	}
	return 0
}

// normalizeTieBreaks отбрасывает неизвестные критерии; пустая цепочка
// заменяется порядком по умолчанию
func normalizeTieBreaks(tieBreaks []string) []string {
	valid := make([]string, 0, len(tieBreaks))
	for _, tb := range tieBreaks {
		if tb == TieBreakPrice || tb == TieBreakPriority {
			valid = append(valid, tb)
		}
	}
	if len(valid) == 0 {
		return DefaultTieBreaks
	}
	return valid
}
