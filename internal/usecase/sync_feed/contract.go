package sync_feed

import (
	"context"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

// FeedRepository интерфейс репозитория фидов синхронизации
type FeedRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SyncFeed, error)
	SetSyncing(ctx context.Context, id int64) error
	MarkSynced(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// LedgerRepository интерфейс репозитория леджера доступности
type LedgerRepository interface {
	GetRange(ctx context.Context, apartmentID int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error)
	GetBySource(ctx context.Context, apartmentID int64, source domain.RecordSource, feedID *int64) ([]*domain.AvailabilityRecord, error)
	SetRange(ctx context.Context, apartmentID int64, rng domain.DateRange, status domain.DayStatus, source domain.RecordSource, feedID *int64, reference *string, note *string) error
	ClearRangeBySource(ctx context.Context, apartmentID int64, rng domain.DateRange, source domain.RecordSource, feedID *int64) error
}

// FeedClient интерфейс клиента внешних календарей
type FeedClient interface {
	FetchEvents(ctx context.Context, url string) ([]domain.FeedEvent, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SyncObserver интерфейс счетчика результатов синхронизации
type SyncObserver interface {
	ObserveFeedSync(result string)
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

// noopObserver наблюдатель по умолчанию, когда метрики выключены
type noopObserver struct{}

func (noopObserver) ObserveFeedSync(string) {}
