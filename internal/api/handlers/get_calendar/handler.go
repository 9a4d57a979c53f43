package get_calendar

import (
	"errors"
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	availabilityService "github.com/colivehq/CLH-AvailabilityService/internal/service/availability"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

const (
	msgInvalidApartmentID = "некорректный ID апартамента"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "некорректный интервал дат: дата выезда должна быть позже даты заезда"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/apartments/{apartmentId}/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentID, err := handlers.PathInt64(r, "apartmentId")
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/calendar - Invalid apartment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApartmentID)
		return
	}

	from, err := types.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/calendar - Invalid 'from' date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := types.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/calendar - Invalid 'to' date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	calendar, err := h.service.GetCalendar(r.Context(), apartmentID, domain.DateRange{From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, availabilityService.ErrInvalidRange):
			h.logger.Warn("GET /apartments/{id}/calendar - Invalid range: apartment_id=%d", apartmentID)
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("GET /apartments/{id}/calendar - Failed: apartment_id=%d, error=%v", apartmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /apartments/{id}/calendar - apartment_id=%d, records=%d", apartmentID, len(calendar.Records))
	handlers.RespondJSON(w, http.StatusOK, calendar)
}
