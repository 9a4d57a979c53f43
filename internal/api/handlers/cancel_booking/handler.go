package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
	"github.com/colivehq/CLH-AvailabilityService/internal/api/middleware"
	bookingsService "github.com/colivehq/CLH-AvailabilityService/internal/service/bookings"
	"github.com/colivehq/CLH-AvailabilityService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgBookingNotFound    = "бронирование не найдено"
	msgAccessDenied       = "отмена чужого бронирования запрещена"
	msgCannotCancel       = "бронирование уже отменено"
	msgInvalidReason      = "некорректная причина отмены"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guestID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Error("PATCH /bookings/{id}/cancel - Missing user ID in context")
		handlers.RespondInternalError(w)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.Cancel(r.Context(), bookingID, &models.CancelBookingRequest{
		GuestID:            guestID,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, guest_id=%d", bookingID, guestID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, bookingsService.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid reason: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidReason)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Cancelled booking_id=%d by guest_id=%d", bookingID, guestID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
