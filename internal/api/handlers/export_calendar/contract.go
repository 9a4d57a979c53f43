package export_calendar

import "context"

type AvailabilityService interface {
	ExportFeed(ctx context.Context, apartmentID int64) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
