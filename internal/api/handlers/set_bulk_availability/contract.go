package set_bulk_availability

import (
	"context"

	"github.com/colivehq/CLH-AvailabilityService/internal/service/availability/models"
)

type AvailabilityService interface {
	SetBulkAvailability(ctx context.Context, req *models.BulkAvailabilityRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
