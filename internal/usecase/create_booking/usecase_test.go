package create_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/txmanager"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

func date(day int) types.Date {
	return types.NewDate(2026, time.February, day)
}

// fakeBookingRepo сохраняет бронирования в памяти
type fakeBookingRepo struct {
	nextID  int64
	created []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	booking.ID = f.nextID
	for _, seg := range booking.Segments {
		seg.BookingID = booking.ID
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.created = append(f.created, booking)
	return booking, nil
}

// fakeLedger леджер в памяти с журналом записей
type fakeLedger struct {
	busy      map[types.Date]*domain.AvailabilityRecord
	setCalls  []domain.DateRange
	getRanges []domain.DateRange
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{busy: make(map[types.Date]*domain.AvailabilityRecord)}
}

func (f *fakeLedger) block(rng domain.DateRange) {
	for _, d := range rng.Days() {
		f.busy[d] = &domain.AvailabilityRecord{Day: d, Status: domain.DayBooked, Source: domain.SourceBooking}
	}
}

func (f *fakeLedger) GetRange(_ context.Context, _ int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error) {
	f.getRanges = append(f.getRanges, rng)
	records := make([]*domain.AvailabilityRecord, 0)
	for d := rng.From; d.Before(rng.To); d = d.AddDays(1) {
		if rec, ok := f.busy[d]; ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (f *fakeLedger) SetRange(_ context.Context, _ int64, rng domain.DateRange, status domain.DayStatus, source domain.RecordSource, feedID *int64, reference *string, note *string) error {
	f.setCalls = append(f.setCalls, rng)
	for _, d := range rng.Days() {
		f.busy[d] = &domain.AvailabilityRecord{Day: d, Status: status, Source: source, FeedID: feedID, Reference: reference}
	}
	return nil
}

// fakeCatalog каталог апартаментов в памяти
type fakeCatalog struct {
	apartments map[int64]*domain.Apartment
}

func (f *fakeCatalog) GetApartment(_ context.Context, id int64) (*domain.Apartment, error) {
	apt, ok := f.apartments[id]
	if !ok {
		return nil, fmt.Errorf("catalogservice: apartment not found")
	}
	return apt, nil
}

// fakeTxManager исполняет функцию, опционально имитируя проигранные гонки
type fakeTxManager struct {
	failuresLeft int
	calls        int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return fmt.Errorf("%w: restart transaction", txmanager.ErrSerializationFailure)
	}
	return fn(ctx)
}

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

// fixedTime детерминированное «сегодня» для тестов
type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newTestUseCase(ledger *fakeLedger, tx *fakeTxManager) (*UseCase, *fakeBookingRepo) {
	repo := &fakeBookingRepo{}
	catalog := &fakeCatalog{apartments: map[int64]*domain.Apartment{
		1: {ID: 1, Title: "Loft A", NightlyRate: 100, Status: domain.ApartmentAvailable},
		2: {ID: 2, Title: "Loft B", NightlyRate: 150, Status: domain.ApartmentAvailable},
		3: {ID: 3, Title: "Closed", NightlyRate: 90, Status: domain.ApartmentMaintenance},
	}}

	uc := NewUseCase(repo, ledger, catalog, tx, fakeLogger{})
	uc.timeProvider = fixedTime{t: time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)}
	return uc, repo
}

func singleSegmentRequest() *Request {
	return &Request{
		GuestID: 10,
		Segments: []SegmentRequest{
			{ApartmentID: 1, CheckIn: date(5), CheckOut: date(10)},
		},
	}
}

func TestCreateBookingWritesLedger(t *testing.T) {
	ledger := newFakeLedger()
	uc, repo := newTestUseCase(ledger, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), singleSegmentRequest())
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.False(t, resp.IsSplitStay)
	assert.Equal(t, 500.0, resp.TotalPrice) // 5 ночей по 100

	require.Len(t, repo.created, 1)
	require.Len(t, ledger.setCalls, 1)
	assert.Equal(t, domain.DateRange{From: date(5), To: date(10)}, ledger.setCalls[0])

	// Записи леджера ссылаются на бронирование
	rec := ledger.busy[date(5)]
	require.NotNil(t, rec)
	assert.Equal(t, domain.SourceBooking, rec.Source)
	require.NotNil(t, rec.Reference)
	assert.Equal(t, "1", *rec.Reference)
}

func TestCreateBookingSplitStay(t *testing.T) {
	ledger := newFakeLedger()
	uc, _ := newTestUseCase(ledger, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), &Request{
		GuestID: 10,
		Segments: []SegmentRequest{
			{ApartmentID: 1, CheckIn: date(5), CheckOut: date(8)},
			{ApartmentID: 2, CheckIn: date(8), CheckOut: date(12)},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.IsSplitStay)
	assert.Equal(t, 3*100.0+4*150.0, resp.TotalPrice)
	assert.Len(t, ledger.setCalls, 2)
}

func TestCreateBookingConflictOnBusyDay(t *testing.T) {
	ledger := newFakeLedger()
	ledger.block(domain.DateRange{From: date(7), To: date(8)})
	uc, repo := newTestUseCase(ledger, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), singleSegmentRequest())
	assert.ErrorIs(t, err, ErrConflict)

	// Ничего не записано: транзакция откатилась целиком
	assert.Empty(t, repo.created)
	assert.Empty(t, ledger.setCalls)
}

func TestCreateBookingRetriesLostRaceOnce(t *testing.T) {
	ledger := newFakeLedger()
	tx := &fakeTxManager{failuresLeft: 1}
	uc, repo := newTestUseCase(ledger, tx)

	resp, err := uc.Execute(context.Background(), singleSegmentRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, tx.calls)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, int64(1), resp.ID)
}

func TestCreateBookingGivesUpAfterSecondLostRace(t *testing.T) {
	ledger := newFakeLedger()
	tx := &fakeTxManager{failuresLeft: 2}
	uc, repo := newTestUseCase(ledger, tx)

	_, err := uc.Execute(context.Background(), singleSegmentRequest())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 2, tx.calls)
	assert.Empty(t, repo.created)
}

func TestCreateBookingValidation(t *testing.T) {
	uc, _ := newTestUseCase(newFakeLedger(), &fakeTxManager{})
	ctx := context.Background()

	// Заезд в прошлом
	_, err := uc.Execute(ctx, &Request{
		GuestID:  10,
		Segments: []SegmentRequest{{ApartmentID: 1, CheckIn: date(5).AddDays(-31), CheckOut: date(5)}},
	})
	assert.ErrorIs(t, err, ErrDateInPast)

	// Перевернутый интервал
	_, err = uc.Execute(ctx, &Request{
		GuestID:  10,
		Segments: []SegmentRequest{{ApartmentID: 1, CheckIn: date(10), CheckOut: date(5)}},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	// Зазор между сегментами
	_, err = uc.Execute(ctx, &Request{
		GuestID: 10,
		Segments: []SegmentRequest{
			{ApartmentID: 1, CheckIn: date(5), CheckOut: date(8)},
			{ApartmentID: 2, CheckIn: date(9), CheckOut: date(12)},
		},
	})
	assert.ErrorIs(t, err, ErrSegmentsNotContiguous)

	// Повторное использование апартамента
	_, err = uc.Execute(ctx, &Request{
		GuestID: 10,
		Segments: []SegmentRequest{
			{ApartmentID: 1, CheckIn: date(5), CheckOut: date(8)},
			{ApartmentID: 1, CheckIn: date(8), CheckOut: date(12)},
		},
	})
	assert.ErrorIs(t, err, ErrApartmentReused)
}

func TestCreateBookingApartmentChecks(t *testing.T) {
	uc, _ := newTestUseCase(newFakeLedger(), &fakeTxManager{})
	ctx := context.Background()

	// Апартамент выведен из оборота
	_, err := uc.Execute(ctx, &Request{
		GuestID:  10,
		Segments: []SegmentRequest{{ApartmentID: 3, CheckIn: date(5), CheckOut: date(10)}},
	})
	assert.ErrorIs(t, err, ErrApartmentNotBookable)
}
