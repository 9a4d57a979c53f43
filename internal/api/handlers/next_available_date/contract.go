package next_available_date

import (
	"context"

	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

type AvailabilityService interface {
	NextAvailableDate(ctx context.Context, apartmentID int64) (*types.Date, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
