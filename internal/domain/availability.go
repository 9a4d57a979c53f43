package domain

import (
	"time"

	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// DayStatus статус дня в леджере доступности
type DayStatus string

const (
	DayAvailable DayStatus = "available"
	DayBooked    DayStatus = "booked"
	DayBlocked   DayStatus = "blocked"
)

// IsValidDayStatus проверяет, что статус дня допустим
func IsValidDayStatus(s DayStatus) bool {
	return s == DayAvailable || s == DayBooked || s == DayBlocked
}

// RecordSource источник записи в леджере.
// Синхронизация внешних календарей имеет право трогать только записи
// со своим источником и своим feed_id.
type RecordSource string

const (
	SourceManual  RecordSource = "manual"
	SourceBooking RecordSource = "booking"
	SourceSync    RecordSource = "sync"
)

// AvailabilityRecord запись леджера: статус одного дня одного апартамента.
// Отсутствие записи на дату означает "available" (разреженное представление,
// леджер хранит только занятые и заблокированные дни).
type AvailabilityRecord struct {
	ID          int64
	ApartmentID int64
	Day         types.Date
	Status      DayStatus
	Source      RecordSource
	FeedID      *int64  // ID фида, если запись создана синхронизацией
	Reference   *string // ID бронирования или внешний UID события
	Note        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailable возвращает true, если день доступен для заселения
func (r *AvailabilityRecord) IsAvailable() bool {
	return r.Status == DayAvailable
}

// OwnedByFeed проверяет, что запись принадлежит указанному фиду синхронизации
func (r *AvailabilityRecord) OwnedByFeed(feedID int64) bool {
	return r.Source == SourceSync && r.FeedID != nil && *r.FeedID == feedID
}

// DateRange полуинтервал дат [From, To).
// To - дата выезда: сама она свободна для следующего гостя.
type DateRange struct {
	From types.Date
	To   types.Date
}

// IsValid проверяет, что интервал не пуст (From строго раньше To)
func (r DateRange) IsValid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.From.Before(r.To)
}

// Nights возвращает количество ночей в интервале
func (r DateRange) Nights() int {
	return r.From.DaysUntil(r.To)
}

// Contains проверяет, что дата попадает в полуинтервал [From, To)
func (r DateRange) Contains(d types.Date) bool {
	return !d.Before(r.From) && d.Before(r.To)
}

// Covers проверяет, что интервал полностью покрывает other
func (r DateRange) Covers(other DateRange) bool {
	return !r.From.After(other.From) && !r.To.Before(other.To)
}

// Overlaps проверяет пересечение полуинтервалов.
// Граничащие интервалы (To == From) не пересекаются.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.From.Before(other.To) && other.From.Before(r.To)
}

// Intersect возвращает пересечение двух интервалов и признак его непустоты
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	res := DateRange{
		From: types.MaxDate(r.From, other.From),
		To:   types.MinDate(r.To, other.To),
	}
	return res, res.IsValid()
}

// Days возвращает все даты полуинтервала по порядку
func (r DateRange) Days() []types.Date {
	if !r.IsValid() {
		return []types.Date{}
	}
	days := make([]types.Date, 0, r.Nights())
	for d := r.From; d.Before(r.To); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
