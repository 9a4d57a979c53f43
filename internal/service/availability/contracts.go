package availability

import (
	"context"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

// LedgerRepository интерфейс репозитория леджера доступности
type LedgerRepository interface {
	SetRange(ctx context.Context, apartmentID int64, rng domain.DateRange, status domain.DayStatus, source domain.RecordSource, feedID *int64, reference *string, note *string) error
	ClearRange(ctx context.Context, apartmentID int64, rng domain.DateRange) error
	GetRange(ctx context.Context, apartmentID int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error)
	CountUnavailable(ctx context.Context, apartmentID int64, rng domain.DateRange) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
