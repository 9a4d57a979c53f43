package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	bookingRepo "github.com/colivehq/CLH-AvailabilityService/internal/infra/storage/booking"
	"github.com/colivehq/CLH-AvailabilityService/internal/service/bookings/models"
	"github.com/colivehq/CLH-AvailabilityService/pkg/ptr"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

func date(day int) types.Date {
	return types.NewDate(2026, time.April, day)
}

// fakeBookingRepo бронирования в памяти
type fakeBookingRepo struct {
	bookings  map[int64]*domain.Booking
	cancelled []int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID:      1,
			GuestID: 10,
			Status:  domain.StatusConfirmed,
			Segments: []*domain.BookingSegment{
				{ID: 1, BookingID: 1, ApartmentID: 100, CheckIn: date(1), CheckOut: date(5), Price: 400},
				{ID: 2, BookingID: 1, ApartmentID: 101, CheckIn: date(5), CheckOut: date(9), Price: 600},
			},
			IsSplitStay: true,
		},
		2: {
			ID:      2,
			GuestID: 10,
			Status:  domain.StatusCancelled,
			Segments: []*domain.BookingSegment{
				{ID: 3, BookingID: 2, ApartmentID: 102, CheckIn: date(10), CheckOut: date(12), Price: 200},
			},
		},
	}}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByGuestID(_ context.Context, guestID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.GuestID != guestID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b := f.bookings[id]
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	f.cancelled = append(f.cancelled, id)
	return nil
}

// fakeLedger журнал освобожденных диапазонов
type fakeLedger struct {
	cleared []domain.DateRange
}

func (f *fakeLedger) ClearRange(_ context.Context, _ int64, rng domain.DateRange) error {
	f.cleared = append(f.cleared, rng)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeBookingRepo, ledger *fakeLedger) *Service {
	return NewService(repo, ledger, fakeTxManager{}, fakeLogger{})
}

func TestGetByIDOwnerOnly(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), &fakeLedger{})
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.True(t, resp.IsSplitStay)
	assert.Equal(t, 1000.0, resp.TotalPrice)

	// Чужое бронирование недоступно
	_, err = svc.GetByID(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, 404, 10)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetGuestBookings(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), &fakeLedger{})
	ctx := context.Background()

	resp, err := svc.GetGuestBookings(ctx, &models.GetGuestBookingsRequest{GuestID: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	// Фильтр по статусу
	resp, err = svc.GetGuestBookings(ctx, &models.GetGuestBookingsRequest{
		GuestID: 10,
		Status:  ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)

	// Статусы вне словаря confirmed/cancelled отклоняются
	for _, status := range []string{"pending", "requested"} {
		_, err = svc.GetGuestBookings(ctx, &models.GetGuestBookingsRequest{
			GuestID: 10,
			Status:  ptr.Ptr(status),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestCancelReleasesAllSegments(t *testing.T) {
	repo := newFakeBookingRepo()
	ledger := &fakeLedger{}
	svc := newTestService(repo, ledger)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		GuestID:            10,
		CancellationReason: "план изменился",
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, repo.cancelled)
	require.Len(t, ledger.cleared, 2)
	assert.Equal(t, domain.DateRange{From: date(1), To: date(5)}, ledger.cleared[0])
	assert.Equal(t, domain.DateRange{From: date(5), To: date(9)}, ledger.cleared[1])
}

func TestCancelGuards(t *testing.T) {
	repo := newFakeBookingRepo()
	ledger := &fakeLedger{}
	svc := newTestService(repo, ledger)
	ctx := context.Background()

	// Чужое бронирование
	err := svc.Cancel(ctx, 1, &models.CancelBookingRequest{GuestID: 99, CancellationReason: "x"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Уже отмененное
	err = svc.Cancel(ctx, 2, &models.CancelBookingRequest{GuestID: 10, CancellationReason: "x"})
	assert.ErrorIs(t, err, ErrCannotCancel)

	// Слишком длинная причина
	err = svc.Cancel(ctx, 1, &models.CancelBookingRequest{
		GuestID:            10,
		CancellationReason: strings.Repeat("x", domain.MaxCancellationReasonLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, ledger.cleared)
	assert.Empty(t, repo.cancelled)
}
