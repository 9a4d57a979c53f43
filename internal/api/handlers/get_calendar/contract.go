package get_calendar

import (
	"context"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetCalendar(ctx context.Context, apartmentID int64, rng domain.DateRange) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
