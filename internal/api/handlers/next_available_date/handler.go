package next_available_date

import (
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
)

const msgInvalidApartmentID = "некорректный ID апартамента"

// NextAvailableResponse HTTP response model.
// nextAvailableDate = null означает, что внутри горизонта доступности нет.
type NextAvailableResponse struct {
	ApartmentID       int64   `json:"apartmentId"`
	NextAvailableDate *string `json:"nextAvailableDate"`
}

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

// Handle GET /api/v1/apartments/{apartmentId}/next-available
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentID, err := handlers.PathInt64(r, "apartmentId")
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/next-available - Invalid apartment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApartmentID)
		return
	}

	next, err := h.service.NextAvailableDate(r.Context(), apartmentID)
	if err != nil {
		h.logger.Error("GET /apartments/{id}/next-available - Failed: apartment_id=%d, error=%v", apartmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	response := NextAvailableResponse{ApartmentID: apartmentID}
	if next != nil {
		s := next.String()
		response.NextAvailableDate = &s
	}

	h.logger.Info("GET /apartments/{id}/next-available - apartment_id=%d, next=%v", apartmentID, response.NextAvailableDate)
	handlers.RespondJSON(w, http.StatusOK, response)
}
