package get_guest_bookings

import (
	"context"

	"github.com/colivehq/CLH-AvailabilityService/internal/service/bookings/models"
)

type BookingService interface {
	GetGuestBookings(ctx context.Context, req *models.GetGuestBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
