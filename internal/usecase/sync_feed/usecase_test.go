package sync_feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	feedStorage "github.com/colivehq/CLH-AvailabilityService/internal/infra/storage/feed"
	feedClient "github.com/colivehq/CLH-AvailabilityService/internal/integrations/calendarfeed"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

func date(day int) types.Date {
	return types.NewDate(2026, time.March, day)
}

// fakeFeedRepo фиды в памяти с журналом смен состояния
type fakeFeedRepo struct {
	feeds  map[int64]*domain.SyncFeed
	states []string
	errors []string
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{feeds: map[int64]*domain.SyncFeed{
		1: {ID: 1, ApartmentID: 100, RemoteURL: "https://calendar.example.com/1.ics", State: domain.FeedIdle},
	}}
}

func (f *fakeFeedRepo) GetByID(_ context.Context, id int64) (*domain.SyncFeed, error) {
	feed, ok := f.feeds[id]
	if !ok {
		return nil, feedStorage.ErrFeedNotFound
	}
	return feed, nil
}

func (f *fakeFeedRepo) SetSyncing(_ context.Context, id int64) error {
	f.states = append(f.states, "syncing")
	return nil
}

func (f *fakeFeedRepo) MarkSynced(_ context.Context, id int64) error {
	f.states = append(f.states, "idle")
	return nil
}

func (f *fakeFeedRepo) MarkFailed(_ context.Context, id int64, reason string) error {
	f.states = append(f.states, "failed")
	f.errors = append(f.errors, reason)
	return nil
}

// fakeLedger леджер в памяти
type fakeLedger struct {
	busy map[types.Date]*domain.AvailabilityRecord

	setCalls   int
	clearCalls int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{busy: make(map[types.Date]*domain.AvailabilityRecord)}
}

func (f *fakeLedger) put(day types.Date, source domain.RecordSource, feedID *int64, ref string) {
	f.busy[day] = &domain.AvailabilityRecord{
		Day: day, Status: domain.DayBooked, Source: source, FeedID: feedID, Reference: &ref,
	}
}

func (f *fakeLedger) GetRange(_ context.Context, _ int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error) {
	records := make([]*domain.AvailabilityRecord, 0)
	for d := rng.From; d.Before(rng.To); d = d.AddDays(1) {
		if rec, ok := f.busy[d]; ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (f *fakeLedger) GetBySource(_ context.Context, _ int64, source domain.RecordSource, feedID *int64) ([]*domain.AvailabilityRecord, error) {
	records := make([]*domain.AvailabilityRecord, 0)
	for _, rec := range f.busy {
		if rec.Source != source {
			continue
		}
		if feedID != nil && !rec.OwnedByFeed(*feedID) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (f *fakeLedger) SetRange(_ context.Context, _ int64, rng domain.DateRange, status domain.DayStatus, source domain.RecordSource, feedID *int64, reference *string, _ *string) error {
	f.setCalls++
	for _, d := range rng.Days() {
		f.busy[d] = &domain.AvailabilityRecord{Day: d, Status: status, Source: source, FeedID: feedID, Reference: reference}
	}
	return nil
}

func (f *fakeLedger) ClearRangeBySource(_ context.Context, _ int64, rng domain.DateRange, source domain.RecordSource, feedID *int64) error {
	f.clearCalls++
	for _, d := range rng.Days() {
		rec, ok := f.busy[d]
		if !ok || rec.Source != source {
			continue
		}
		if feedID != nil && !rec.OwnedByFeed(*feedID) {
			continue
		}
		delete(f.busy, d)
	}
	return nil
}

// fakeFeedClient отдает заранее заданные события или ошибку
type fakeFeedClient struct {
	events []domain.FeedEvent
	err    error
}

func (f *fakeFeedClient) FetchEvents(_ context.Context, _ string) ([]domain.FeedEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func event(uid string, from, to int) domain.FeedEvent {
	return domain.FeedEvent{UID: uid, Range: domain.DateRange{From: date(from), To: date(to)}}
}

func newTestUseCase(repo *fakeFeedRepo, ledger *fakeLedger, client *fakeFeedClient) *UseCase {
	uc := NewUseCase(repo, ledger, client, fakeTxManager{}, nil, 12, fakeLogger{})
	uc.timeProvider = fixedTime{t: time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)}
	return uc
}

func TestSyncFeedWritesEvents(t *testing.T) {
	repo := newFakeFeedRepo()
	ledger := newFakeLedger()
	client := &fakeFeedClient{events: []domain.FeedEvent{
		event("ev-1", 10, 13),
		event("ev-2", 20, 22),
	}}

	uc := newTestUseCase(repo, ledger, client)
	resp, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.EventsProcessed)
	assert.Equal(t, 5, resp.DaysWritten)
	assert.Equal(t, 0, resp.DaysCleared)
	assert.Equal(t, []string{"syncing", "idle"}, repo.states)

	rec := ledger.busy[date(10)]
	require.NotNil(t, rec)
	assert.Equal(t, domain.SourceSync, rec.Source)
	require.NotNil(t, rec.FeedID)
	assert.Equal(t, int64(1), *rec.FeedID)
	require.NotNil(t, rec.Reference)
	assert.Equal(t, "ev-1", *rec.Reference)

	// Дата выезда события свободна
	assert.NotContains(t, ledger.busy, date(13))
}

func TestSyncFeedDoesNotTouchForeignRecords(t *testing.T) {
	repo := newFakeFeedRepo()
	ledger := newFakeLedger()

	// День 11 заблокирован вручную, день 12 занят другим фидом
	otherFeed := int64(9)
	ledger.put(date(11), domain.SourceManual, nil, "manual-ref")
	ledger.put(date(12), domain.SourceSync, &otherFeed, "other-ev")

	client := &fakeFeedClient{events: []domain.FeedEvent{event("ev-1", 10, 14)}}

	uc := newTestUseCase(repo, ledger, client)
	resp, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	require.NoError(t, err)

	// Записаны только дни 10 и 13, чужие записи нетронуты
	assert.Equal(t, 2, resp.DaysWritten)
	assert.Equal(t, domain.SourceManual, ledger.busy[date(11)].Source)
	assert.Equal(t, "other-ev", *ledger.busy[date(12)].Reference)
	assert.Equal(t, "ev-1", *ledger.busy[date(10)].Reference)
	assert.Equal(t, "ev-1", *ledger.busy[date(13)].Reference)
}

func TestSyncFeedClearsStaleDays(t *testing.T) {
	repo := newFakeFeedRepo()
	ledger := newFakeLedger()

	// Прошлая синхронизация заняла дни 10-12, событие из календаря пропало
	feedID := int64(1)
	ledger.put(date(10), domain.SourceSync, &feedID, "gone-ev")
	ledger.put(date(11), domain.SourceSync, &feedID, "gone-ev")
	ledger.put(date(12), domain.SourceSync, &feedID, "kept-ev")

	client := &fakeFeedClient{events: []domain.FeedEvent{event("kept-ev", 12, 13)}}

	uc := newTestUseCase(repo, ledger, client)
	resp, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.DaysCleared)
	assert.NotContains(t, ledger.busy, date(10))
	assert.NotContains(t, ledger.busy, date(11))
	assert.Contains(t, ledger.busy, date(12))
}

func TestSyncFeedKeepsPastDaysOfOngoingEvent(t *testing.T) {
	repo := newFakeFeedRepo()
	ledger := newFakeLedger()

	// Идущее событие: заезд в феврале, выезд в марте. Прошедшие ночи
	// записаны прошлой синхронизацией.
	feedID := int64(1)
	ledger.put(types.NewDate(2026, time.February, 25), domain.SourceSync, &feedID, "ongoing-ev")
	ledger.put(types.NewDate(2026, time.February, 26), domain.SourceSync, &feedID, "ongoing-ev")
	ledger.put(types.NewDate(2026, time.February, 27), domain.SourceSync, &feedID, "ongoing-ev")

	client := &fakeFeedClient{events: []domain.FeedEvent{{
		UID: "ongoing-ev",
		Range: domain.DateRange{
			From: types.NewDate(2026, time.February, 25),
			To:   date(4),
		},
	}}}

	uc := newTestUseCase(repo, ledger, client)
	resp, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	require.NoError(t, err)

	// Событие всё ещё в календаре: его прошедшие ночи не устарели
	assert.Equal(t, 0, resp.DaysCleared)
	assert.Contains(t, ledger.busy, types.NewDate(2026, time.February, 25))
	assert.Contains(t, ledger.busy, types.NewDate(2026, time.February, 27))

	// Ночи внутри окна синхронизации дозаписаны
	assert.Equal(t, 3, resp.DaysWritten)
	assert.Contains(t, ledger.busy, date(1))
	assert.Contains(t, ledger.busy, date(3))
	assert.NotContains(t, ledger.busy, date(4))
}

func TestSyncFeedKeepsOwnedDaysBeyondHorizon(t *testing.T) {
	repo := newFakeFeedRepo()
	ledger := newFakeLedger()

	// Запись за горизонтом (синхронизирована при большем горизонте)
	feedID := int64(1)
	farDay := types.NewDate(2027, time.June, 1)
	ledger.put(farDay, domain.SourceSync, &feedID, "far-ev")

	uc := newTestUseCase(repo, ledger, &fakeFeedClient{})
	resp, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.DaysCleared)
	assert.Contains(t, ledger.busy, farDay)
}

func TestSyncFeedFetchFailureLeavesLedgerIntact(t *testing.T) {
	repo := newFakeFeedRepo()
	ledger := newFakeLedger()
	feedID := int64(1)
	ledger.put(date(10), domain.SourceSync, &feedID, "ev-1")

	client := &fakeFeedClient{err: fmt.Errorf("%w: connection refused", feedClient.ErrFetchFailed)}

	uc := newTestUseCase(repo, ledger, client)
	_, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	assert.ErrorIs(t, err, ErrFeedFetchFailed)

	// Фид помечен failed, леджер не изменился
	assert.Equal(t, []string{"syncing", "failed"}, repo.states)
	assert.Contains(t, ledger.busy, date(10))
	assert.Zero(t, ledger.setCalls)
	assert.Zero(t, ledger.clearCalls)
}

func TestSyncFeedParseFailure(t *testing.T) {
	repo := newFakeFeedRepo()
	client := &fakeFeedClient{err: fmt.Errorf("%w: VEVENT without UID", feedClient.ErrParseFailed)}

	uc := newTestUseCase(repo, newFakeLedger(), client)
	_, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	assert.ErrorIs(t, err, ErrFeedParseFailed)
	require.Len(t, repo.errors, 1)
	assert.Contains(t, repo.errors[0], "UID")
}

func TestSyncFeedRejectsConcurrentRun(t *testing.T) {
	uc := newTestUseCase(newFakeFeedRepo(), newFakeLedger(), &fakeFeedClient{})

	require.True(t, uc.guard.TryAcquire(1))
	defer uc.guard.Release(1)

	_, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestSyncFeedNotFound(t *testing.T) {
	uc := newTestUseCase(newFakeFeedRepo(), newFakeLedger(), &fakeFeedClient{})

	_, err := uc.Execute(context.Background(), &Request{FeedID: 404})
	assert.ErrorIs(t, err, ErrFeedNotFound)
}

func TestSyncFeedIgnoresEventsBeyondHorizon(t *testing.T) {
	repo := newFakeFeedRepo()
	ledger := newFakeLedger()

	// Горизонт 12 месяцев от 2026-03-01; событие в 2028 году игнорируется
	farFuture := domain.FeedEvent{UID: "far", Range: domain.DateRange{
		From: types.NewDate(2028, time.January, 1),
		To:   types.NewDate(2028, time.January, 5),
	}}
	client := &fakeFeedClient{events: []domain.FeedEvent{farFuture, event("near", 10, 12)}}

	uc := newTestUseCase(repo, ledger, client)
	resp, err := uc.Execute(context.Background(), &Request{FeedID: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.EventsProcessed)
	assert.Equal(t, 2, resp.DaysWritten)
	assert.NotContains(t, ledger.busy, types.NewDate(2028, time.January, 1))
}
