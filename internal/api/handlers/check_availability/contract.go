package check_availability

import (
	"context"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

type AvailabilityService interface {
	IsFullyAvailable(ctx context.Context, apartmentID int64, rng domain.DateRange) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
