package create_booking

import (
	"errors"
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
	"github.com/colivehq/CLH-AvailabilityService/internal/api/middleware"
	createBooking "github.com/colivehq/CLH-AvailabilityService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange         = "некорректный интервал дат сегмента"
	msgDateInPast           = "дата заезда уже прошла"
	msgTooManySegments      = "слишком много сегментов в бронировании"
	msgSegmentsNotChained   = "сегменты должны стыковаться: выезд одного - заезд следующего"
	msgApartmentReused      = "апартамент не может использоваться в двух сегментах"
	msgApartmentNotFound    = "апартамент не найден"
	msgApartmentNotBookable = "апартамент недоступен для бронирования"
	msgDatesConflict        = "выбранные даты уже заняты"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guestID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Error("POST /bookings - Missing user ID in context")
		handlers.RespondInternalError(w)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(guestID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrConflict):
			h.logger.Warn("POST /bookings - Dates conflict: guest_id=%d", guestID)
			handlers.RespondConflict(w, msgDatesConflict)

		case errors.Is(err, createBooking.ErrApartmentNotFound):
			h.logger.Warn("POST /bookings - Apartment not found: guest_id=%d", guestID)
			handlers.RespondNotFound(w, msgApartmentNotFound)

		case errors.Is(err, createBooking.ErrApartmentNotBookable):
			h.logger.Warn("POST /bookings - Apartment not bookable: guest_id=%d", guestID)
			handlers.RespondBadRequest(w, msgApartmentNotBookable)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Check-in in the past: guest_id=%d", guestID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrInvalidRange):
			h.logger.Warn("POST /bookings - Invalid segment range: guest_id=%d", guestID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, createBooking.ErrTooManySegments):
			h.logger.Warn("POST /bookings - Too many segments: guest_id=%d", guestID)
			handlers.RespondBadRequest(w, msgTooManySegments)

		case errors.Is(err, createBooking.ErrSegmentsNotContiguous):
			h.logger.Warn("POST /bookings - Segments not contiguous: guest_id=%d", guestID)
			handlers.RespondBadRequest(w, msgSegmentsNotChained)

		case errors.Is(err, createBooking.ErrApartmentReused):
			h.logger.Warn("POST /bookings - Apartment reused: guest_id=%d", guestID)
			handlers.RespondBadRequest(w, msgApartmentReused)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: guest_id=%d, error=%v", guestID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: guest_id=%d, error=%v", guestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, guest_id=%d, segments=%d",
		result.ID, guestID, len(result.Segments))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
