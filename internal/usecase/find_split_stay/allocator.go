package find_split_stay

import (
	"sort"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// allocator строит варианты split-stay поверх свободных интервалов апартаментов.
// Алгоритм: точки разреза -> граф достижимости -> BFS (минимум переездов) ->
// перебор кратчайших путей с выбором апартамента на каждом ребре.
type allocator struct {
	requested  domain.DateRange
	apartments map[int64]*domain.Apartment
	// free[apartmentID] - максимальные свободные интервалы внутри requested
	free map[int64][]domain.DateRange

	cuts []types.Date // отсортированные точки разреза, cuts[0]=From, cuts[len-1]=To
}

// newAllocator собирает аллокатор из свободных интервалов, обрезанных по requested
func newAllocator(requested domain.DateRange, apartments map[int64]*domain.Apartment, intervals []domain.FreeInterval) *allocator {
	a := &allocator{
		requested:  requested,
		apartments: apartments,
		free:       make(map[int64][]domain.DateRange),
	}

	for _, iv := range intervals {
		clipped, ok := iv.Range.Intersect(requested)
		if !ok {
			continue
		}
		a.free[iv.ApartmentID] = append(a.free[iv.ApartmentID], clipped)
	}

	a.cuts = a.collectCutPoints()
	return a
}

// collectCutPoints возвращает точки разреза: границы запрошенного интервала
// плюс границы свободных интервалов, попавшие строго внутрь него. Переезд
// в оптимальном варианте случается только в такой точке - там, где чей-то
// свободный интервал начинается или заканчивается.
func (a *allocator) collectCutPoints() []types.Date {
	set := map[types.Date]struct{}{
		a.requested.From: {},
		a.requested.To:   {},
	}

	for _, ranges := range a.free {
		for _, rng := range ranges {
			if a.requested.From.Before(rng.From) && rng.From.Before(a.requested.To) {
				set[rng.From] = struct{}{}
			}
			if a.requested.From.Before(rng.To) && rng.To.Before(a.requested.To) {
				set[rng.To] = struct{}{}
			}
		}
	}

	cuts := make([]types.Date, 0, len(set))
	for d := range set {
		cuts = append(cuts, d)
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].Before(cuts[j]) })

	return cuts
}

// apartmentsCovering возвращает ID апартаментов, свободных на всём отрезке
// [cuts[i], cuts[j]), в детерминированном порядке
func (a *allocator) apartmentsCovering(i, j int) []int64 {
	span := domain.DateRange{From: a.cuts[i], To: a.cuts[j]}

	ids := make([]int64, 0)
	for id, ranges := range a.free {
		for _, rng := range ranges {
			if rng.Covers(span) {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// shortestDistances возвращает dist[i] - минимальное число сегментов,
// покрывающих [cuts[0], cuts[i]). Недостижимые узлы помечены -1.
func (a *allocator) shortestDistances() []int {
	n := len(a.cuts)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	dist[0] = 0

	queue := []int{0}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for q := p + 1; q < n; q++ {
			if dist[q] != -1 {
				continue
			}
			if len(a.apartmentsCovering(p, q)) > 0 {
				dist[q] = dist[p] + 1
				queue = append(queue, q)
			}
		}
	}

	return dist
}

// enumerate перебирает варианты с минимальным числом переездов.
// Идём только по рёбрам кратчайших путей (dist[q] == dist[p]+1), на каждом
// ребре выбирая любой из свободных апартаментов; варианты с повторным
// использованием апартамента отбрасываются. Перебор обрывается, как только
// набрано limit вариантов: ранжирование дальше сузит выдачу, а полный
// перебор на плотном графе комбинаторно взрывается.
func (a *allocator) enumerate(maxSegments, limit int) []*domain.SplitStayOption {
	dist := a.shortestDistances()
	last := len(a.cuts) - 1

	if dist[last] == -1 || dist[last] > maxSegments {
		return []*domain.SplitStayOption{}
	}

	options := make([]*domain.SplitStayOption, 0, limit)
	used := make(map[int64]struct{})
	path := make([]domain.OptionSegment, 0, dist[last])

	var walk func(p int)
	walk = func(p int) {
		if len(options) >= limit {
			return
		}
		if p == last {
			options = append(options, a.buildOption(path))
			return
		}
		for q := p + 1; q <= last; q++ {
			if dist[q] != dist[p]+1 {
				continue
			}
			for _, id := range a.apartmentsCovering(p, q) {
				if _, taken := used[id]; taken {
					continue
				}
				used[id] = struct{}{}
				path = append(path, a.segment(id, p, q))

				walk(q)

				path = path[:len(path)-1]
				delete(used, id)

				if len(options) >= limit {
					return
				}
			}
		}
	}
	walk(0)

	return options
}

// segment собирает сегмент варианта для апартамента на отрезке [cuts[p], cuts[q])
func (a *allocator) segment(apartmentID int64, p, q int) domain.OptionSegment {
	rng := domain.DateRange{From: a.cuts[p], To: a.cuts[q]}
	apt := a.apartments[apartmentID]

	return domain.OptionSegment{
		ApartmentID:    apartmentID,
		ApartmentTitle: apt.Title,
		CheckIn:        rng.From,
		CheckOut:       rng.To,
		Price:          apt.NightlyRate * float64(rng.Nights()),
	}
}

// buildOption копирует накопленный путь в готовый вариант
func (a *allocator) buildOption(path []domain.OptionSegment) *domain.SplitStayOption {
	segments := make([]domain.OptionSegment, len(path))
	copy(segments, path)

	total := 0.0
	for _, s := range segments {
		total += s.Price
	}

	return &domain.SplitStayOption{
		Segments:   segments,
		TotalPrice: total,
	}
}

// freeIntervalsOf превращает разреженную выборку леджера в максимальные
// свободные интервалы апартамента внутри rng: дни без записи считаются
// свободными, записи с "available" тоже
func freeIntervalsOf(apartmentID int64, records []*domain.AvailabilityRecord, rng domain.DateRange) []domain.FreeInterval {
	blocked := make(map[types.Date]struct{}, len(records))
	for _, rec := range records {
		if !rec.IsAvailable() {
			blocked[rec.Day] = struct{}{}
		}
	}

	intervals := make([]domain.FreeInterval, 0, 1)
	var start types.Date
	open := false

	for d := rng.From; d.Before(rng.To); d = d.AddDays(1) {
		_, isBlocked := blocked[d]
		switch {
		case !isBlocked && !open:
			start = d
			open = true
		case isBlocked && open:
			intervals = append(intervals, domain.FreeInterval{
				ApartmentID: apartmentID,
				Range:       domain.DateRange{From: start, To: d},
			})
			open = false
		}
	}
	if open {
		intervals = append(intervals, domain.FreeInterval{
			ApartmentID: apartmentID,
			Range:       domain.DateRange{From: start, To: rng.To},
		})
	}

	return intervals
}
