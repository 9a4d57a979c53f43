package models

import (
	"errors"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	GuestID            int64  `json:"guestId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetGuestBookingsRequest запрос на получение бронирований гостя
type GetGuestBookingsRequest struct {
	GuestID int64   `json:"guestId"`
	Status  *string `json:"status,omitempty"`
}

// Response модели

// SegmentResponse сегмент бронирования: один апартамент, один отрезок дат
type SegmentResponse struct {
	ApartmentID int64   `json:"apartmentId"`
	CheckIn     string  `json:"checkIn"`  // "2025-10-15"
	CheckOut    string  `json:"checkOut"` // дата выезда, эксклюзивна
	Nights      int     `json:"nights"`
	Price       float64 `json:"price"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64             `json:"id"`
	GuestID     int64             `json:"guestId"`
	Status      string            `json:"status"`
	IsSplitStay bool              `json:"isSplitStay"`
	Segments    []SegmentResponse `json:"segments"`
	TotalPrice  float64           `json:"totalPrice"`
	Notes       *string           `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	segments := make([]SegmentResponse, 0, len(b.Segments))
	for _, s := range b.Segments {
		segments = append(segments, SegmentResponse{
			ApartmentID: s.ApartmentID,
			CheckIn:     s.CheckIn.String(),
			CheckOut:    s.CheckOut.String(),
			Nights:      s.Nights(),
			Price:       s.Price,
		})
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		GuestID:            b.GuestID,
		Status:             string(b.Status),
		IsSplitStay:        b.IsSplitStay,
		Segments:           segments,
		TotalPrice:         b.TotalPrice(),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	switch s {
	case domain.StatusConfirmed, domain.StatusCancelled:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
