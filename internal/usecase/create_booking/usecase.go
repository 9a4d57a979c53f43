package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	catalogClient "github.com/colivehq/CLH-AvailabilityService/internal/integrations/catalogservice"
	"github.com/colivehq/CLH-AvailabilityService/pkg/txmanager"
)

// UseCase use case создания и подтверждения бронирования.
// Единственный путь записи занятых дат в леджер для гостевых бронирований.
type UseCase struct {
	bookingRepo   BookingRepository
	ledgerRepo    LedgerRepository
	catalogClient CatalogClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	catalogClient CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		ledgerRepo:    ledgerRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования.
// Повторная проверка доступности и запись выполняются в одной сериализуемой
// транзакции: окно между поиском гостя и подтверждением закрывается здесь.
// Проигранная гонка сериализации повторяется один раз, затем ErrConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: guest=%d, segments=%d", req.GuestID, len(req.Segments))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем апартаменты из каталога и считаем стоимость сегментов
	segments, err := uc.buildSegments(ctx, req)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		GuestID:     req.GuestID,
		Status:      domain.StatusConfirmed,
		IsSplitStay: len(segments) > 1,
		Segments:    segments,
		Notes:       req.Notes,
	}

	// 3. Подтверждаем в сериализуемой транзакции; при проигрыше гонки
	// повторяем попытку один раз с чтением свежего состояния леджера
	var result *domain.Booking
	for attempt := 0; attempt < 2; attempt++ {
		result, err = uc.confirm(ctx, booking)
		if err == nil {
			break
		}
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization failure on attempt %d for guest=%d, retrying", attempt+1, req.GuestID)
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: guest=%d lost the race twice", req.GuestID)
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d (%d segments, total=%.2f)",
		result.ID, len(result.Segments), result.TotalPrice())

	return toResponse(result), nil
}

// buildSegments собирает доменные сегменты, проверяя апартаменты по каталогу.
// Стоимость сегмента = ставка за ночь * количество ночей; тарифы каталога
// для этого сервиса непрозрачны.
func (uc *UseCase) buildSegments(ctx context.Context, req *Request) ([]*domain.BookingSegment, error) {
	segments := make([]*domain.BookingSegment, 0, len(req.Segments))

	for _, seg := range req.Segments {
		apartment, err := uc.catalogClient.GetApartment(ctx, seg.ApartmentID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrApartmentNotFound) {
				uc.logger.Warn("CreateBooking: apartment id=%d not found", seg.ApartmentID)
				return nil, fmt.Errorf("%w: id=%d", ErrApartmentNotFound, seg.ApartmentID)
			}
			uc.logger.Error("CreateBooking: failed to get apartment id=%d: %v", seg.ApartmentID, err)
			return nil, fmt.Errorf("%w: failed to get apartment: %v", ErrInternal, err)
		}

		if !apartment.IsBookable() {
			uc.logger.Warn("CreateBooking: apartment id=%d is not bookable, status=%s", apartment.ID, apartment.Status)
			return nil, fmt.Errorf("%w: id=%d", ErrApartmentNotBookable, apartment.ID)
		}

		rng := domain.DateRange{From: seg.CheckIn, To: seg.CheckOut}
		segments = append(segments, &domain.BookingSegment{
			ApartmentID: seg.ApartmentID,
			CheckIn:     seg.CheckIn,
			CheckOut:    seg.CheckOut,
			Price:       apartment.NightlyRate * float64(rng.Nights()),
		})
	}

	return segments, nil
}

// confirm выполняет одну попытку подтверждения: повторная проверка каждого
// сегмента под блокировкой, затем запись бронирования и занятых дат.
// Всё или ничего: любой занятый день откатывает транзакцию целиком.
func (uc *UseCase) confirm(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Повторная проверка доступности каждого сегмента (FOR UPDATE)
		for _, segment := range booking.Segments {
			records, err := uc.ledgerRepo.GetRange(txCtx, segment.ApartmentID, segment.Range())
			if err != nil {
				uc.logger.Error("CreateBooking: failed to re-check apartment=%d: %v", segment.ApartmentID, err)
				return fmt.Errorf("%w: failed to re-check availability: %v", ErrInternal, err)
			}

			if !allDaysAvailable(records) {
				uc.logger.Warn("CreateBooking: apartment=%d range=[%s, %s) no longer available",
					segment.ApartmentID, segment.CheckIn, segment.CheckOut)
				return fmt.Errorf("%w: apartment=%d [%s, %s)",
					ErrConflict, segment.ApartmentID, segment.CheckIn, segment.CheckOut)
			}
		}

		// 3.2. Сохраняем бронирование с сегментами
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.3. Занимаем даты каждого сегмента в леджере
		reference := strconv.FormatInt(created.ID, 10)
		for _, segment := range created.Segments {
			err := uc.ledgerRepo.SetRange(txCtx, segment.ApartmentID, segment.Range(),
				domain.DayBooked, domain.SourceBooking, nil, &reference, nil)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to write ledger for apartment=%d: %v", segment.ApartmentID, err)
				return fmt.Errorf("%w: failed to write ledger: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// toResponse конвертирует доменное бронирование в response
func toResponse(b *domain.Booking) *Response {
	segments := make([]SegmentResponse, 0, len(b.Segments))
	for _, s := range b.Segments {
		segments = append(segments, SegmentResponse{
			ApartmentID: s.ApartmentID,
			CheckIn:     s.CheckIn,
			CheckOut:    s.CheckOut,
			Nights:      s.Nights(),
			Price:       s.Price,
		})
	}

	return &Response{
		ID:          b.ID,
		GuestID:     b.GuestID,
		Status:      string(b.Status),
		IsSplitStay: b.IsSplitStay,
		Segments:    segments,
		TotalPrice:  b.TotalPrice(),
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
