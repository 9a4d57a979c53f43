package domain

import (
	"time"

	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// BookingSegment один непрерывный отрезок проживания в одном апартаменте.
// CheckOut эксклюзивен: последняя занятая ночь - CheckOut минус один день.
type BookingSegment struct {
	ID          int64
	BookingID   int64
	ApartmentID int64
	CheckIn     types.Date
	CheckOut    types.Date
	Price       float64
}

// Range возвращает интервал дат сегмента
func (s *BookingSegment) Range() DateRange {
	return DateRange{From: s.CheckIn, To: s.CheckOut}
}

// Nights возвращает количество ночей сегмента
func (s *BookingSegment) Nights() int {
	return s.Range().Nights()
}

// Booking бронирование: один или несколько сегментов, упорядоченных по дате заезда.
// Для split-stay бронирования сегменты стыкуются без зазоров и пересечений:
// дата выезда предыдущего сегмента равна дате заезда следующего.
type Booking struct {
	ID          int64
	GuestID     int64
	Status      BookingStatus
	IsSplitStay bool
	Segments    []*BookingSegment
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range возвращает полный интервал бронирования от первого заезда до последнего выезда
func (b *Booking) Range() DateRange {
	if len(b.Segments) == 0 {
		return DateRange{}
	}
	return DateRange{
		From: b.Segments[0].CheckIn,
		To:   b.Segments[len(b.Segments)-1].CheckOut,
	}
}

// TotalPrice возвращает суммарную стоимость всех сегментов
func (b *Booking) TotalPrice() float64 {
	total := 0.0
	for _, s := range b.Segments {
		total += s.Price
	}
	return total
}

// IsActive возвращает true, если бронирование удерживает даты в леджере
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// SegmentsAreContiguous проверяет стыковку сегментов: каждый следующий сегмент
// начинается ровно в дату выезда предыдущего и использует другой апартамент
func (b *Booking) SegmentsAreContiguous() bool {
	for i := 1; i < len(b.Segments); i++ {
		prev, cur := b.Segments[i-1], b.Segments[i]
		if !prev.CheckOut.Equal(cur.CheckIn) {
			return false
		}
		if prev.ApartmentID == cur.ApartmentID {
			return false
		}
	}
	return true
}
