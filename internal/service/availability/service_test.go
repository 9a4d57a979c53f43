package availability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/internal/service/availability/models"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// fakeLedger леджер в памяти: map занятых дней, журнал мутаций
type fakeLedger struct {
	busy map[types.Date]*domain.AvailabilityRecord

	setCalls   []domain.DateRange
	clearCalls []domain.DateRange
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{busy: make(map[types.Date]*domain.AvailabilityRecord)}
}

func (f *fakeLedger) block(rng domain.DateRange, status domain.DayStatus) {
	for _, d := range rng.Days() {
		f.busy[d] = &domain.AvailabilityRecord{Day: d, Status: status, Source: domain.SourceManual}
	}
}

func (f *fakeLedger) SetRange(_ context.Context, _ int64, rng domain.DateRange, status domain.DayStatus, source domain.RecordSource, feedID *int64, reference *string, note *string) error {
	f.setCalls = append(f.setCalls, rng)
	for _, d := range rng.Days() {
		f.busy[d] = &domain.AvailabilityRecord{Day: d, Status: status, Source: source, FeedID: feedID, Reference: reference, Note: note}
	}
	return nil
}

func (f *fakeLedger) ClearRange(_ context.Context, _ int64, rng domain.DateRange) error {
	f.clearCalls = append(f.clearCalls, rng)
	for _, d := range rng.Days() {
		delete(f.busy, d)
	}
	return nil
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

func (f *fakeLedger) CountUnavailable(_ context.Context, _ int64, rng domain.DateRange) (int, error) {
	count := 0
	for d := rng.From; d.Before(rng.To); d = d.AddDays(1) {
		if rec, ok := f.busy[d]; ok && !rec.IsAvailable() {
			count++
		}
	}
	return count, nil
}

// fakeTxManager исполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

// fixedTime детерминированное «сегодня» для тестов
type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var testToday = time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)

func newTestService(ledger *fakeLedger) *Service {
	svc := NewService(ledger, fakeTxManager{}, 3, fakeLogger{})
	svc.timeProvider = fixedTime{t: testToday}
	return svc
}

func day(d int) types.Date {
	return types.NewDate(2026, time.January, d)
}

func TestIsFullyAvailable(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	rng := domain.DateRange{From: day(10), To: day(15)}

	ok, err := svc.IsFullyAvailable(ctx, 1, rng)
	require.NoError(t, err)
	assert.True(t, ok)

	// Занятый день внутри интервала делает его недоступным
	ledger.block(domain.DateRange{From: day(12), To: day(13)}, domain.DayBooked)
	ok, err = svc.IsFullyAvailable(ctx, 1, rng)
	require.NoError(t, err)
	assert.False(t, ok)

	// Занятая дата выезда доступности не мешает
	ledger = newFakeLedger()
	ledger.block(domain.DateRange{From: day(15), To: day(16)}, domain.DayBooked)
	ok, err = newTestService(ledger).IsFullyAvailable(ctx, 1, rng)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.IsFullyAvailable(ctx, 1, domain.DateRange{From: day(15), To: day(10)})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNextAvailableDate(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	// Пустой леджер: свободно уже сегодня
	next, err := svc.NextAvailableDate(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, day(1), *next)

	// Первые пять дней заняты
	ledger.block(domain.DateRange{From: day(1), To: day(6)}, domain.DayBooked)
	next, err = svc.NextAvailableDate(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, day(6), *next)

	// Занят весь горизонт (3 месяца) - доступности нет
	horizon := types.DateOf(testToday.AddDate(0, 3, 0))
	ledger.block(domain.DateRange{From: day(1), To: horizon.AddDays(1)}, domain.DayBlocked)
	next, err = svc.NextAvailableDate(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextAvailableDateCrossesScanWindow(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)

	// Занято больше одного окна сканирования подряд
	blockedDays := domain.ScanWindowDays + 10
	ledger.block(domain.DateRange{From: day(1), To: day(1).AddDays(blockedDays)}, domain.DayBooked)

	next, err := svc.NextAvailableDate(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, day(1).AddDays(blockedDays), *next)
}

func TestGetCalendar(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ledger.block(domain.DateRange{From: day(3), To: day(5)}, domain.DayBlocked)

	calendar, err := svc.GetCalendar(context.Background(), 42, domain.DateRange{From: day(1), To: day(10)})
	require.NoError(t, err)

	assert.Equal(t, int64(42), calendar.ApartmentID)
	require.Len(t, calendar.Records, 2)
	assert.Equal(t, "2026-01-03", calendar.Records[0].Day)
	assert.Equal(t, "blocked", calendar.Records[0].Status)
	assert.Equal(t, "manual", calendar.Records[0].Source)
}

func TestSetBulkAvailabilityGroupsRuns(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)

	// Даты вразнобой с дубликатом: [1,2,3] и [5]
	err := svc.SetBulkAvailability(context.Background(), &models.BulkAvailabilityRequest{
		ApartmentID: 1,
		Dates:       []types.Date{day(3), day(1), day(5), day(2), day(2)},
		Status:      "blocked",
	})
	require.NoError(t, err)

	require.Len(t, ledger.setCalls, 2)
	assert.Equal(t, domain.DateRange{From: day(1), To: day(4)}, ledger.setCalls[0])
	assert.Equal(t, domain.DateRange{From: day(5), To: day(6)}, ledger.setCalls[1])

	// Все записи одной правки получают общий reference
	ref := ledger.busy[day(1)].Reference
	require.NotNil(t, ref)
	assert.Equal(t, *ref, *ledger.busy[day(5)].Reference)
	assert.Equal(t, domain.SourceManual, ledger.busy[day(1)].Source)
}

func TestSetBulkAvailabilityClearsOnAvailable(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ledger.block(domain.DateRange{From: day(1), To: day(4)}, domain.DayBlocked)

	err := svc.SetBulkAvailability(context.Background(), &models.BulkAvailabilityRequest{
		ApartmentID: 1,
		Dates:       []types.Date{day(1), day(2), day(3)},
		Status:      "available",
	})
	require.NoError(t, err)

	require.Len(t, ledger.clearCalls, 1)
	assert.Equal(t, domain.DateRange{From: day(1), To: day(4)}, ledger.clearCalls[0])
	assert.Empty(t, ledger.busy)
}

func TestSetBulkAvailabilityValidation(t *testing.T) {
	svc := newTestService(newFakeLedger())
	ctx := context.Background()

	err := svc.SetBulkAvailability(ctx, &models.BulkAvailabilityRequest{ApartmentID: 1, Status: "blocked"})
	assert.ErrorIs(t, err, ErrNoDates)

	err = svc.SetBulkAvailability(ctx, &models.BulkAvailabilityRequest{
		ApartmentID: 1, Dates: []types.Date{day(1)}, Status: "frozen",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	longNote := strings.Repeat("x", domain.MaxNoteLength+1)
	err = svc.SetBulkAvailability(ctx, &models.BulkAvailabilityRequest{
		ApartmentID: 1, Dates: []types.Date{day(1)}, Status: "blocked", Note: &longNote,
	})
	assert.ErrorIs(t, err, ErrNoteTooLong)
}

func TestExportFeed(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ledger.block(domain.DateRange{From: day(10), To: day(13)}, domain.DayBooked)
	ledger.block(domain.DateRange{From: day(20), To: day(22)}, domain.DayBlocked)

	feed, err := svc.ExportFeed(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(feed, "END:VCALENDAR\r\n"))

	// Непрерывный занятый отрезок - одно событие с эксклюзивным DTEND
	assert.Contains(t, feed, "DTSTART;VALUE=DATE:20260110")
	assert.Contains(t, feed, "DTEND;VALUE=DATE:20260113")
	assert.Contains(t, feed, "SUMMARY:Reserved")
	assert.Contains(t, feed, "SUMMARY:Not available (blocked)")
	assert.Equal(t, 2, strings.Count(feed, "BEGIN:VEVENT"))
}
