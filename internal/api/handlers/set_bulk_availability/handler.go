package set_bulk_availability

import (
	"errors"
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
	availabilityService "github.com/colivehq/CLH-AvailabilityService/internal/service/availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidApartmentID = "некорректный ID апартамента"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNoDates            = "не указаны даты"
	msgInvalidStatus      = "некорректный статус дня"
	msgNoteTooLong        = "заметка слишком длинная"
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

// Handle PUT /api/v1/apartments/{apartmentId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentID, err := handlers.PathInt64(r, "apartmentId")
	if err != nil {
		h.logger.Warn("PUT /apartments/{id}/availability - Invalid apartment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApartmentID)
		return
	}

	var req BulkAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /apartments/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(apartmentID)
	if err != nil {
		h.logger.Warn("PUT /apartments/{id}/availability - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.SetBulkAvailability(r.Context(), serviceReq); err != nil {
		switch {
		case errors.Is(err, availabilityService.ErrNoDates):
			h.logger.Warn("PUT /apartments/{id}/availability - No dates: apartment_id=%d", apartmentID)
			handlers.RespondBadRequest(w, msgNoDates)

		case errors.Is(err, availabilityService.ErrInvalidStatus):
			h.logger.Warn("PUT /apartments/{id}/availability - Invalid status: apartment_id=%d, status=%s", apartmentID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, availabilityService.ErrNoteTooLong):
			h.logger.Warn("PUT /apartments/{id}/availability - Note too long: apartment_id=%d", apartmentID)
			handlers.RespondBadRequest(w, msgNoteTooLong)

		default:
			h.logger.Error("PUT /apartments/{id}/availability - Failed: apartment_id=%d, error=%v", apartmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /apartments/{id}/availability - Updated apartment_id=%d, dates=%d, status=%s",
		apartmentID, len(req.Dates), req.Status)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
