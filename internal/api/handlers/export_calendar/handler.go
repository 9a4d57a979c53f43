package export_calendar

import (
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
)

const msgInvalidApartmentID = "некорректный ID апартамента"

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

// Handle GET /api/v1/apartments/{apartmentId}/calendar.ics
// Отдает занятость апартамента в формате iCalendar для внешних площадок.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentID, err := handlers.PathInt64(r, "apartmentId")
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/calendar.ics - Invalid apartment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApartmentID)
		return
	}

	feed, err := h.service.ExportFeed(r.Context(), apartmentID)
	if err != nil {
		h.logger.Error("GET /apartments/{id}/calendar.ics - Failed: apartment_id=%d, error=%v", apartmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /apartments/{id}/calendar.ics - apartment_id=%d, bytes=%d", apartmentID, len(feed))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed))
}
