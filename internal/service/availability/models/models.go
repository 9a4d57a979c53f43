package models

import (
	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// Request модели

// BulkAvailabilityRequest запрос на ручную правку доступности.
// Даты могут быть непоследовательными - сервис сам группирует их в отрезки.
type BulkAvailabilityRequest struct {
	ApartmentID int64
	Dates       []types.Date
	Status      string
	Note        *string
}

// Response модели

// RecordResponse запись леджера для отображения
type RecordResponse struct {
	Day       string  `json:"day"`    // "2025-10-15"
	Status    string  `json:"status"` // available | booked | blocked
	Source    string  `json:"source"` // manual | booking | sync
	Reference *string `json:"reference,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// CalendarResponse календарь апартамента: только занятые и заблокированные дни,
// отсутствующие дни доступны
type CalendarResponse struct {
	ApartmentID int64            `json:"apartmentId"`
	Records     []RecordResponse `json:"records"`
}

// Методы конвертации

// FromDomainRecords конвертирует записи леджера в DTO календаря
func FromDomainRecords(apartmentID int64, records []*domain.AvailabilityRecord) *CalendarResponse {
	resp := &CalendarResponse{
		ApartmentID: apartmentID,
		Records:     make([]RecordResponse, 0, len(records)),
	}

	for _, rec := range records {
		resp.Records = append(resp.Records, RecordResponse{
			Day:       rec.Day.String(),
			Status:    string(rec.Status),
			Source:    string(rec.Source),
			Reference: rec.Reference,
			Note:      rec.Note,
		})
	}

	return resp
}
