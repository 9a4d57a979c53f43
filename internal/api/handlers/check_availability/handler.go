package check_availability

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

// Handle GET /api/v1/apartments/{apartmentId}/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentID, err := handlers.PathInt64(r, "apartmentId")
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/availability - Invalid apartment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApartmentID)
		return
	}

	from, err := types.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/availability - Invalid 'from' date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := types.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /apartments/{id}/availability - Invalid 'to' date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	available, err := h.service.IsFullyAvailable(r.Context(), apartmentID, domain.DateRange{From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, availabilityService.ErrInvalidRange):
			h.logger.Warn("GET /apartments/{id}/availability - Invalid range: apartment_id=%d", apartmentID)
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("GET /apartments/{id}/availability - Failed: apartment_id=%d, error=%v", apartmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /apartments/{id}/availability - apartment_id=%d, [%s, %s): available=%v",
		apartmentID, from, to, available)
	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{
		ApartmentID: apartmentID,
		From:        from.String(),
		To:          to.String(),
		Available:   available,
	})
}
