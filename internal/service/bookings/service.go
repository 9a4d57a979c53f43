package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	bookingRepo "github.com/colivehq/CLH-AvailabilityService/internal/infra/storage/booking"
	"github.com/colivehq/CLH-AvailabilityService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	ledgerRepo  LedgerRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Гость видит только собственные бронирования.
func (s *Service) GetByID(ctx context.Context, id int64, guestID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for guest=%d", id, guestID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.GuestID != guestID {
		s.logger.Warn("GetByID: access denied for guest=%d to booking id=%d", guestID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetGuestBookings получает историю бронирований гостя
// Опционально фильтрует по статусу
func (s *Service) GetGuestBookings(ctx context.Context, req *models.GetGuestBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetGuestBookings: fetching bookings for guest=%d, status=%v", req.GuestID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetGuestBookings: invalid status=%s for guest=%d", *req.Status, req.GuestID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByGuestID(ctx, req.GuestID, domainStatus)
	if err != nil {
		s.logger.Error("GetGuestBookings: repository error for guest=%d: %v", req.GuestID, err)
		return nil, fmt.Errorf("%w: GetGuestBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetGuestBookings: successfully fetched %d bookings for guest=%d", len(bookings), req.GuestID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование гостя и освобождает даты в леджере.
// Смена статуса и очистка диапазонов всех сегментов выполняются в одной
// сериализуемой транзакции: либо бронирование отменено и даты свободны,
// либо не произошло ничего.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by guest=%d", bookingID, req.GuestID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	// Получаем бронирование
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Гость может отменить только собственное бронирование
	if booking.GuestID != req.GuestID {
		s.logger.Warn("Cancel: access denied for guest=%d to cancel booking id=%d", req.GuestID, bookingID)
		return ErrAccessDenied
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.CancellationReason); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Освобождаем даты каждого сегмента
		for _, segment := range booking.Segments {
			if err := s.ledgerRepo.ClearRange(txCtx, segment.ApartmentID, segment.Range()); err != nil {
				return fmt.Errorf("%w: Cancel - clear range for apartment=%d: %v", ErrInternal, segment.ApartmentID, err)
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: failed to cancel booking id=%d: %v", bookingID, err)
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d, released %d segments",
		bookingID, len(booking.Segments))
	return nil
}
