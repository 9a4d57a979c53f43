package create_booking

import (
	"context"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// LedgerRepository интерфейс репозитория леджера доступности
type LedgerRepository interface {
	GetRange(ctx context.Context, apartmentID int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error)
	SetRange(ctx context.Context, apartmentID int64, rng domain.DateRange, status domain.DayStatus, source domain.RecordSource, feedID *int64, reference *string, note *string) error
}

// CatalogClient интерфейс клиента каталога апартаментов
type CatalogClient interface {
	GetApartment(ctx context.Context, apartmentID int64) (*domain.Apartment, error)
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
