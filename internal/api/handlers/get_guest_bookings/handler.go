package get_guest_bookings

import (
	"errors"
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
	"github.com/colivehq/CLH-AvailabilityService/internal/api/middleware"
	bookingsService "github.com/colivehq/CLH-AvailabilityService/internal/service/bookings"
	"github.com/colivehq/CLH-AvailabilityService/internal/service/bookings/models"
)

const (
	msgInvalidGuestID = "некорректный ID гостя"
	msgInvalidStatus  = "некорректный статус бронирования"
	msgAccessDenied   = "доступ к чужой истории бронирований запрещен"
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

// Handle GET /api/v1/guests/{guestId}/bookings?status=confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Error("GET /guests/{id}/bookings - Missing user ID in context")
		handlers.RespondInternalError(w)
		return
	}

	guestID, err := handlers.PathInt64(r, "guestId")
	if err != nil {
		h.logger.Warn("GET /guests/{id}/bookings - Invalid guest ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGuestID)
		return
	}

	// Гость видит только собственную историю
	if guestID != userID {
		h.logger.Warn("GET /guests/{id}/bookings - Access denied: guest_id=%d, user_id=%d", guestID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetGuestBookingsRequest{GuestID: guestID}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetGuestBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /guests/{id}/bookings - Invalid status: guest_id=%d", guestID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /guests/{id}/bookings - Failed: guest_id=%d, error=%v", guestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /guests/{id}/bookings - Fetched %d bookings for guest_id=%d", len(result.Bookings), guestID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
