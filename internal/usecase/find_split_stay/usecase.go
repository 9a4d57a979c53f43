package find_split_stay

import (
	"context"
	"fmt"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// UseCase use case поиска вариантов split-stay: когда ни один апартамент
// не свободен на весь интервал, гостю предлагается цепочка переездов
// с минимальным числом сегментов.
type UseCase struct {
	ledgerRepo    LedgerRepository
	catalogClient CatalogClient
	timeProvider  TimeProvider
	logger        Logger

	maxOptions int
	tieBreaks  []string
}

// NewUseCase создает новый экземпляр use case.
// tieBreaks - цепочка критериев ранжирования после числа переездов
// ("price", "priority"); пустая цепочка означает порядок по умолчанию.
func NewUseCase(
	ledgerRepo LedgerRepository,
	catalogClient CatalogClient,
	maxOptions int,
	tieBreaks []string,
	logger Logger,
) *UseCase {
	if maxOptions <= 0 {
		maxOptions = domain.DefaultMaxOptions
	}

	return &UseCase{
		ledgerRepo:    ledgerRepo,
		catalogClient: catalogClient,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		maxOptions:    maxOptions,
		tieBreaks:     normalizeTieBreaks(tieBreaks),
	}
}

// Execute выполняет поиск вариантов split-stay.
// Невозможность покрыть интервал - не ошибка: возвращается пустой список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindSplitStay: range=[%s, %s), maxSegments=%d", req.CheckIn, req.CheckOut, req.MaxSegments)

	// 1. Валидация входных данных
	requested := domain.DateRange{From: req.CheckIn, To: req.CheckOut}
	maxSegments, err := uc.validate(req, requested)
	if err != nil {
		uc.logger.Warn("FindSplitStay: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронируемые апартаменты из каталога
	apartments, err := uc.bookableApartments(ctx)
	if err != nil {
		return nil, err
	}
	if len(apartments) == 0 {
		uc.logger.Warn("FindSplitStay: no bookable apartments in catalog")
		return emptyResponse(req), nil
	}

	// 3. Собираем свободные интервалы каждого апартамента из леджера
	intervals, err := uc.collectFreeIntervals(ctx, apartments, requested)
	if err != nil {
		return nil, err
	}

	// 4. Перебираем варианты с минимальным числом переездов и ранжируем.
	// Перебор ограничен сверху: ранжируем больше, чем отдаем, чтобы
	// лучший по цене вариант не отсекся порядком обхода.
	alloc := newAllocator(requested, apartments, intervals)
	options := alloc.enumerate(maxSegments, uc.maxOptions*enumerationFactor)
	rankOptions(options, apartments, uc.tieBreaks)
	if len(options) > uc.maxOptions {
		options = options[:uc.maxOptions]
	}

	uc.logger.Info("FindSplitStay: range=[%s, %s) - %d option(s)", req.CheckIn, req.CheckOut, len(options))

	return &Response{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Options:  options,
	}, nil
}

// enumerationFactor во сколько раз больше вариантов перебирается, чем отдается
const enumerationFactor = 4

// validate проверяет запрос и возвращает нормализованный maxSegments
func (uc *UseCase) validate(req *Request, requested domain.DateRange) (int, error) {
	if !requested.IsValid() {
		return 0, fmt.Errorf("%w: [%s, %s)", ErrInvalidRange, req.CheckIn, req.CheckOut)
	}

	today := types.DateOf(uc.timeProvider.Now().UTC())
	if req.CheckIn.Before(today) {
		return 0, fmt.Errorf("%w: check-in %s", ErrDateInPast, req.CheckIn)
	}

	maxSegments := req.MaxSegments
	if maxSegments == 0 {
		maxSegments = domain.DefaultMaxSegments
	}
	if maxSegments < domain.MinSplitSegments {
		return 0, fmt.Errorf("%w: maxSegments must be at least %d", ErrInvalidInput, domain.MinSplitSegments)
	}
	if maxSegments > domain.MaxSplitSegmentsCap {
		uc.logger.Warn("FindSplitStay: maxSegments=%d clamped to %d", maxSegments, domain.MaxSplitSegmentsCap)
		maxSegments = domain.MaxSplitSegmentsCap
	}

	return maxSegments, nil
}

// bookableApartments возвращает бронируемые апартаменты каталога по ID
func (uc *UseCase) bookableApartments(ctx context.Context) (map[int64]*domain.Apartment, error) {
	list, err := uc.catalogClient.ListAvailableApartments(ctx)
	if err != nil {
		uc.logger.Error("FindSplitStay: failed to list apartments: %v", err)
		return nil, fmt.Errorf("%w: failed to list apartments: %v", ErrInternal, err)
	}

	apartments := make(map[int64]*domain.Apartment, len(list))
	for _, apt := range list {
		if apt.IsBookable() {
			apartments[apt.ID] = apt
		}
	}
	return apartments, nil
}

// collectFreeIntervals читает леджер каждого апартамента и строит его
// свободные интервалы внутри запрошенного диапазона
func (uc *UseCase) collectFreeIntervals(ctx context.Context, apartments map[int64]*domain.Apartment, requested domain.DateRange) ([]domain.FreeInterval, error) {
	intervals := make([]domain.FreeInterval, 0, len(apartments))

	for id := range apartments {
		records, err := uc.ledgerRepo.GetRange(ctx, id, requested)
		if err != nil {
			uc.logger.Error("FindSplitStay: failed to read ledger for apartment=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to read ledger: %v", ErrInternal, err)
		}
		intervals = append(intervals, freeIntervalsOf(id, records, requested)...)
	}

	return intervals, nil
}

func emptyResponse(req *Request) *Response {
	return &Response{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Options:  []*domain.SplitStayOption{},
	}
}
