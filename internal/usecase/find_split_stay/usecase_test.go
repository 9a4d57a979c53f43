package find_split_stay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// fakeLedger леджер в памяти: занятые дни по апартаментам
type fakeLedger struct {
	busy map[int64]map[types.Date]struct{}
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{busy: make(map[int64]map[types.Date]struct{})}
}

func (f *fakeLedger) block(apartmentID int64, rng domain.DateRange) {
	if f.busy[apartmentID] == nil {
		f.busy[apartmentID] = make(map[types.Date]struct{})
	}
	for _, d := range rng.Days() {
		f.busy[apartmentID][d] = struct{}{}
	}
}

func (f *fakeLedger) GetRange(_ context.Context, apartmentID int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error) {
	records := make([]*domain.AvailabilityRecord, 0)
	for d := rng.From; d.Before(rng.To); d = d.AddDays(1) {
		if _, busy := f.busy[apartmentID][d]; busy {
			records = append(records, &domain.AvailabilityRecord{
				ApartmentID: apartmentID, Day: d, Status: domain.DayBooked, Source: domain.SourceBooking,
			})
		}
	}
	return records, nil
}

// fakeCatalog каталог в памяти
type fakeCatalog struct {
	apartments []*domain.Apartment
}

func (f *fakeCatalog) ListAvailableApartments(_ context.Context) ([]*domain.Apartment, error) {
	return f.apartments, nil
}

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newTestUseCase(ledger *fakeLedger, catalog *fakeCatalog) *UseCase {
	uc := NewUseCase(ledger, catalog, 10, nil, fakeLogger{})
	uc.timeProvider = fixedTime{t: time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)}
	return uc
}

func TestFindSplitStayEndToEnd(t *testing.T) {
	ledger := newFakeLedger()
	catalog := &fakeCatalog{apartments: []*domain.Apartment{
		apartment(1, 100, 0),
		apartment(2, 100, 0),
	}}

	// Апартамент 1 занят с 10-го, апартамент 2 занят до 5-го
	ledger.block(1, domain.DateRange{From: date(10), To: date(31)})
	ledger.block(2, domain.DateRange{From: date(1), To: date(5)})

	uc := newTestUseCase(ledger, catalog)
	resp, err := uc.Execute(context.Background(), &Request{
		CheckIn:  date(1),
		CheckOut: date(15),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Options)

	requested := domain.DateRange{From: date(1), To: date(15)}
	for _, opt := range resp.Options {
		assert.True(t, opt.CoversExactly(requested))
		assert.False(t, opt.ReusesApartment())
	}
}

func TestFindSplitStayInfeasibleIsNotAnError(t *testing.T) {
	ledger := newFakeLedger()
	catalog := &fakeCatalog{apartments: []*domain.Apartment{apartment(1, 100, 0)}}
	ledger.block(1, domain.DateRange{From: date(5), To: date(7)})

	uc := newTestUseCase(ledger, catalog)
	resp, err := uc.Execute(context.Background(), &Request{
		CheckIn:  date(1),
		CheckOut: date(10),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Options)
}

func TestFindSplitStayEmptyCatalog(t *testing.T) {
	uc := newTestUseCase(newFakeLedger(), &fakeCatalog{})

	resp, err := uc.Execute(context.Background(), &Request{
		CheckIn:  date(1),
		CheckOut: date(10),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Options)
}

func TestFindSplitStayValidation(t *testing.T) {
	uc := newTestUseCase(newFakeLedger(), &fakeCatalog{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{CheckIn: date(10), CheckOut: date(5)})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = uc.Execute(ctx, &Request{
		CheckIn:  types.NewDate(2025, time.December, 20),
		CheckOut: date(5),
	})
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = uc.Execute(ctx, &Request{CheckIn: date(1), CheckOut: date(10), MaxSegments: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFindSplitStaySkipsUnbookableApartments(t *testing.T) {
	ledger := newFakeLedger()
	maintenance := apartment(1, 100, 0)
	maintenance.Status = domain.ApartmentMaintenance
	catalog := &fakeCatalog{apartments: []*domain.Apartment{maintenance}}

	uc := newTestUseCase(ledger, catalog)
	resp, err := uc.Execute(context.Background(), &Request{
		CheckIn:  date(1),
		CheckOut: date(10),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Options)
}
