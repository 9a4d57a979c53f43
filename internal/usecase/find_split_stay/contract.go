package find_split_stay

import (
	"context"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

// LedgerRepository интерфейс репозитория леджера доступности
type LedgerRepository interface {
	GetRange(ctx context.Context, apartmentID int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error)
}

// CatalogClient интерфейс клиента каталога апартаментов
type CatalogClient interface {
	ListAvailableApartments(ctx context.Context) ([]*domain.Apartment, error)
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
