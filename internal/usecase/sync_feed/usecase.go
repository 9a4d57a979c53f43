package sync_feed

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	feedStorage "github.com/colivehq/CLH-AvailabilityService/internal/infra/storage/feed"
	feedClient "github.com/colivehq/CLH-AvailabilityService/internal/integrations/calendarfeed"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// Результаты синхронизации для метрик
const (
	resultSuccess     = "success"
	resultRejected    = "rejected"
	resultFetchFailed = "fetch_failed"
	resultParseFailed = "parse_failed"
	resultError       = "error"
)

// UseCase use case синхронизации внешнего календаря с леджером.
// Синхронизация владеет только записями своего фида: ручные блокировки и
// записи бронирований никогда не перезаписываются и не удаляются.
type UseCase struct {
	feedRepo     FeedRepository
	ledgerRepo   LedgerRepository
	feedClient   FeedClient
	txManager    TransactionManager
	guard        *inFlightGuard
	observer     SyncObserver
	timeProvider TimeProvider
	logger       Logger

	horizonMonths int
}

// NewUseCase создает новый экземпляр use case.
// observer может быть nil, если метрики выключены.
func NewUseCase(
	feedRepo FeedRepository,
	ledgerRepo LedgerRepository,
	client FeedClient,
	txManager TransactionManager,
	observer SyncObserver,
	horizonMonths int,
	logger Logger,
) *UseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	if horizonMonths <= 0 {
		horizonMonths = domain.DefaultHorizonMonths
	}

	return &UseCase{
		feedRepo:      feedRepo,
		ledgerRepo:    ledgerRepo,
		feedClient:    client,
		txManager:     txManager,
		guard:         newInFlightGuard(),
		observer:      observer,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		horizonMonths: horizonMonths,
	}
}

// Execute выполняет синхронизацию фида.
// Скачивание идет до открытия транзакции: при любой ошибке сети или разбора
// леджер остается нетронутым, фид помечается failed с текстом ошибки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.FeedID <= 0 {
		return nil, fmt.Errorf("%w: feedID must be positive", ErrInvalidInput)
	}

	// 1. Не допускаем параллельных синхронизаций одного фида
	if !uc.guard.TryAcquire(req.FeedID) {
		uc.logger.Warn("SyncFeed: feed=%d sync already in progress", req.FeedID)
		uc.observer.ObserveFeedSync(resultRejected)
		return nil, fmt.Errorf("%w: feed=%d", ErrSyncInProgress, req.FeedID)
	}
	defer uc.guard.Release(req.FeedID)

	uc.logger.Info("SyncFeed: starting sync for feed=%d", req.FeedID)

	// 2. Получаем фид и помечаем его синхронизирующимся
	feed, err := uc.feedRepo.GetByID(ctx, req.FeedID)
	if err != nil {
		if errors.Is(err, feedStorage.ErrFeedNotFound) {
			uc.observer.ObserveFeedSync(resultError)
			return nil, fmt.Errorf("%w: id=%d", ErrFeedNotFound, req.FeedID)
		}
		uc.logger.Error("SyncFeed: failed to get feed=%d: %v", req.FeedID, err)
		uc.observer.ObserveFeedSync(resultError)
		return nil, fmt.Errorf("%w: failed to get feed: %v", ErrInternal, err)
	}

	if err := uc.feedRepo.SetSyncing(ctx, feed.ID); err != nil {
		uc.logger.Error("SyncFeed: failed to mark feed=%d syncing: %v", feed.ID, err)
		uc.observer.ObserveFeedSync(resultError)
		return nil, fmt.Errorf("%w: failed to mark feed syncing: %v", ErrInternal, err)
	}

	// 3. Скачиваем и разбираем внешний календарь
	events, err := uc.feedClient.FetchEvents(ctx, feed.RemoteURL)
	if err != nil {
		return nil, uc.failSync(ctx, feed.ID, err)
	}

	// 4. Применяем diff к леджеру в одной сериализуемой транзакции
	written, cleared, err := uc.applyEvents(ctx, feed, events)
	if err != nil {
		return nil, uc.failSync(ctx, feed.ID, err)
	}

	// 5. Фиксируем успешную синхронизацию
	if err := uc.feedRepo.MarkSynced(ctx, feed.ID); err != nil {
		uc.logger.Error("SyncFeed: failed to mark feed=%d synced: %v", feed.ID, err)
		uc.observer.ObserveFeedSync(resultError)
		return nil, fmt.Errorf("%w: failed to mark feed synced: %v", ErrInternal, err)
	}

	uc.logger.Info("SyncFeed: feed=%d synced, events=%d, written=%d, cleared=%d",
		feed.ID, len(events), written, cleared)
	uc.observer.ObserveFeedSync(resultSuccess)

	return &Response{
		FeedID:          feed.ID,
		ApartmentID:     feed.ApartmentID,
		EventsProcessed: len(events),
		DaysWritten:     written,
		DaysCleared:     cleared,
	}, nil
}

// failSync помечает фид неудачным и возвращает ошибку, классифицированную
// для HTTP-слоя (скачивание и разбор отличаются от внутренних ошибок)
func (uc *UseCase) failSync(ctx context.Context, feedID int64, cause error) error {
	uc.logger.Error("SyncFeed: feed=%d sync failed: %v", feedID, cause)

	if err := uc.feedRepo.MarkFailed(ctx, feedID, cause.Error()); err != nil {
		uc.logger.Error("SyncFeed: failed to mark feed=%d failed: %v", feedID, err)
	}

	switch {
	case errors.Is(cause, feedClient.ErrFetchFailed):
		uc.observer.ObserveFeedSync(resultFetchFailed)
		return fmt.Errorf("%w: %v", ErrFeedFetchFailed, cause)
	case errors.Is(cause, feedClient.ErrParseFailed):
		uc.observer.ObserveFeedSync(resultParseFailed)
		return fmt.Errorf("%w: %v", ErrFeedParseFailed, cause)
	default:
		uc.observer.ObserveFeedSync(resultError)
		return fmt.Errorf("%w: %v", ErrInternal, cause)
	}
}

// applyEvents применяет события фида к леджеру апартамента:
//   - дни событий занимаются записями source=sync с UID события в reference;
//   - дни с чужими записями (manual, booking, другой фид) пропускаются;
//   - дни фида, пропавшие из календаря, освобождаются.
//
// Всё выполняется в одной сериализуемой транзакции: читатели видят либо
// прошлое состояние фида целиком, либо новое.
func (uc *UseCase) applyEvents(ctx context.Context, feed *domain.SyncFeed, events []domain.FeedEvent) (written, cleared int, err error) {
	window := uc.syncWindow()
	desired := desiredDays(events, window)

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Текущие записи фида (FOR UPDATE)
		owned, err := uc.ledgerRepo.GetBySource(txCtx, feed.ApartmentID, domain.SourceSync, &feed.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to read feed records: %v", ErrInternal, err)
		}

		// 4.2. Дни, занятые чужими записями, фид не трогает
		foreign, err := uc.foreignDays(txCtx, feed, desired)
		if err != nil {
			return err
		}

		// 4.3. Записываем дни событий, свободные от чужих записей
		for _, run := range groupDesiredRuns(desired, foreign) {
			uid := run.uid
			err := uc.ledgerRepo.SetRange(txCtx, feed.ApartmentID, run.rng,
				domain.DayBooked, domain.SourceSync, &feed.ID, &uid, nil)
			if err != nil {
				return fmt.Errorf("%w: failed to write feed records: %v", ErrInternal, err)
			}
			written += run.rng.Nights()
		}

		// 4.4. Освобождаем дни фида, пропавшие из календаря
		for _, rng := range groupStaleRuns(owned, desired, window) {
			err := uc.ledgerRepo.ClearRangeBySource(txCtx, feed.ApartmentID, rng, domain.SourceSync, &feed.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to clear stale feed records: %v", ErrInternal, err)
			}
			cleared += rng.Nights()
		}

		return nil
	})
	if txErr != nil {
		return 0, 0, txErr
	}

	return written, cleared, nil
}

// syncWindow возвращает окно синхронизации [сегодня, сегодня + горизонт).
// События за горизонтом игнорируются, прошедшие дни не переписываются.
func (uc *UseCase) syncWindow() domain.DateRange {
	now := uc.timeProvider.Now().UTC()
	return domain.DateRange{
		From: types.DateOf(now),
		To:   types.DateOf(now.AddDate(0, uc.horizonMonths, 0)),
	}
}

// foreignDays возвращает дни desired, занятые записями не этого фида
func (uc *UseCase) foreignDays(ctx context.Context, feed *domain.SyncFeed, desired map[types.Date]string) (map[types.Date]struct{}, error) {
	foreign := make(map[types.Date]struct{})
	if len(desired) == 0 {
		return foreign, nil
	}

	span := desiredSpan(desired)
	records, err := uc.ledgerRepo.GetRange(ctx, feed.ApartmentID, span)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read ledger: %v", ErrInternal, err)
	}

	for _, rec := range records {
		if _, wanted := desired[rec.Day]; wanted && !rec.OwnedByFeed(feed.ID) {
			foreign[rec.Day] = struct{}{}
		}
	}

	return foreign, nil
}

// desiredDays раскладывает события фида по дням внутри окна синхронизации.
// При пересечении событий день остается за первым по порядку в календаре.
func desiredDays(events []domain.FeedEvent, window domain.DateRange) map[types.Date]string {
	desired := make(map[types.Date]string)

	for _, ev := range events {
		clipped, ok := ev.Range.Intersect(window)
		if !ok {
			continue
		}
		for d := clipped.From; d.Before(clipped.To); d = d.AddDays(1) {
			if _, taken := desired[d]; !taken {
				desired[d] = ev.UID
			}
		}
	}

	return desired
}

// desiredSpan возвращает минимальный полуинтервал, покрывающий все дни desired
func desiredSpan(desired map[types.Date]string) domain.DateRange {
	var span domain.DateRange
	first := true

	for d := range desired {
		if first {
			span = domain.DateRange{From: d, To: d.AddDays(1)}
			first = false
			continue
		}
		if d.Before(span.From) {
			span.From = d
		}
		if !d.Before(span.To) {
			span.To = d.AddDays(1)
		}
	}

	return span
}

// dayRun непрерывный отрезок дней одного события
type dayRun struct {
	rng domain.DateRange
	uid string
}

// groupDesiredRuns группирует записываемые дни (без чужих) в непрерывные
// отрезки с одним UID - по отрезку на SQL-запрос
func groupDesiredRuns(desired map[types.Date]string, foreign map[types.Date]struct{}) []dayRun {
	days := make([]types.Date, 0, len(desired))
	for d := range desired {
		if _, skip := foreign[d]; !skip {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	runs := make([]dayRun, 0)
	for _, d := range days {
		uid := desired[d]
		if n := len(runs); n > 0 && runs[n-1].rng.To.Equal(d) && runs[n-1].uid == uid {
			runs[n-1].rng.To = d.AddDays(1)
			continue
		}
		runs = append(runs, dayRun{
			rng: domain.DateRange{From: d, To: d.AddDays(1)},
			uid: uid,
		})
	}

	return runs
}

// groupStaleRuns группирует дни фида, пропавшие из календаря, в непрерывные
// отрезки для удаления. Сравнение идет только внутри окна синхронизации:
// desired обрезан по окну, поэтому дни за его пределами (прошедшие ночи
// идущего события, события за горизонтом) устаревшими не считаются.
func groupStaleRuns(owned []*domain.AvailabilityRecord, desired map[types.Date]string, window domain.DateRange) []domain.DateRange {
	days := make([]types.Date, 0)
	for _, rec := range owned {
		if !window.Contains(rec.Day) {
			continue
		}
		if _, wanted := desired[rec.Day]; !wanted {
			days = append(days, rec.Day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	runs := make([]domain.DateRange, 0)
	for _, d := range days {
		if n := len(runs); n > 0 && runs[n-1].To.Equal(d) {
			runs[n-1].To = d.AddDays(1)
			continue
		}
		runs = append(runs, domain.DateRange{From: d, To: d.AddDays(1)})
	}

	return runs
}
