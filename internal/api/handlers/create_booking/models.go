package create_booking

import (
	"time"

	createBooking "github.com/colivehq/CLH-AvailabilityService/internal/usecase/create_booking"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// SegmentRequest сегмент запрашиваемого бронирования
type SegmentRequest struct {
	ApartmentID int64  `json:"apartmentId"`
	CheckIn     string `json:"checkIn"`  // "2026-01-01"
	CheckOut    string `json:"checkOut"` // дата выезда, эксклюзивна
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Segments []SegmentRequest `json:"segments"`
	Notes    *string          `json:"notes,omitempty"`
}

// SegmentResponse сегмент созданного бронирования
type SegmentResponse struct {
	ApartmentID int64   `json:"apartmentId"`
	CheckIn     string  `json:"checkIn"`
	CheckOut    string  `json:"checkOut"`
	Nights      int     `json:"nights"`
	Price       float64 `json:"price"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64             `json:"id"`
	GuestID     int64             `json:"guestId"`
	Status      string            `json:"status"`
	IsSplitStay bool              `json:"isSplitStay"`
	Segments    []SegmentResponse `json:"segments"`
	TotalPrice  float64           `json:"totalPrice"`
	Notes       *string           `json:"notes,omitempty"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(guestID int64) (*createBooking.Request, error) {
	segments := make([]createBooking.SegmentRequest, 0, len(r.Segments))
	for _, seg := range r.Segments {
		checkIn, err := types.ParseDate(seg.CheckIn)
		if err != nil {
			return nil, err
		}
		checkOut, err := types.ParseDate(seg.CheckOut)
		if err != nil {
			return nil, err
		}
		segments = append(segments, createBooking.SegmentRequest{
			ApartmentID: seg.ApartmentID,
			CheckIn:     checkIn,
			CheckOut:    checkOut,
		})
	}

	return &createBooking.Request{
		GuestID:  guestID,
		Segments: segments,
		Notes:    r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	segments := make([]SegmentResponse, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, SegmentResponse{
			ApartmentID: seg.ApartmentID,
			CheckIn:     seg.CheckIn.String(),
			CheckOut:    seg.CheckOut.String(),
			Nights:      seg.Nights,
			Price:       seg.Price,
		})
	}

	return &BookingResponse{
		ID:          resp.ID,
		GuestID:     resp.GuestID,
		Status:      resp.Status,
		IsSplitStay: resp.IsSplitStay,
		Segments:    segments,
		TotalPrice:  resp.TotalPrice,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
