package set_bulk_availability

import (
	"github.com/colivehq/CLH-AvailabilityService/internal/service/availability/models"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// BulkAvailabilityRequest HTTP request model.
// Даты могут быть непоследовательными, статус применяется ко всем сразу.
type BulkAvailabilityRequest struct {
	Dates  []string `json:"dates"`  // ["2026-01-01", ...]
	Status string   `json:"status"` // available | blocked
	Note   *string  `json:"note,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *BulkAvailabilityRequest) ToServiceRequest(apartmentID int64) (*models.BulkAvailabilityRequest, error) {
	dates := make([]types.Date, 0, len(r.Dates))
	for _, raw := range r.Dates {
		d, err := types.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	return &models.BulkAvailabilityRequest{
		ApartmentID: apartmentID,
		Dates:       dates,
		Status:      r.Status,
		Note:        r.Note,
	}, nil
}
