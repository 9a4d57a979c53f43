package availability

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/internal/service/availability/models"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// Service сервис запросов и ручных правок доступности
type Service struct {
	ledgerRepo   LedgerRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger

	horizonMonths int
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	ledgerRepo LedgerRepository,
	txManager TransactionManager,
	horizonMonths int,
	logger Logger,
) *Service {
	if horizonMonths <= 0 {
		horizonMonths = domain.DefaultHorizonMonths
	}
	return &Service{
		ledgerRepo:    ledgerRepo,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		horizonMonths: horizonMonths,
	}
}

// IsFullyAvailable проверяет, что каждый день полуинтервала [from, to) свободен.
// Отсутствие записи в леджере считается доступностью; дата выезда (to)
// в проверку не входит.
func (s *Service) IsFullyAvailable(ctx context.Context, apartmentID int64, rng domain.DateRange) (bool, error) {
	if !rng.IsValid() {
		return false, fmt.Errorf("%w: [%s, %s)", ErrInvalidRange, rng.From, rng.To)
	}

	count, err := s.ledgerRepo.CountUnavailable(ctx, apartmentID, rng)
	if err != nil {
		s.logger.Error("IsFullyAvailable: apartment=%d range=[%s, %s): %v", apartmentID, rng.From, rng.To, err)
		return false, fmt.Errorf("%w: IsFullyAvailable - repository error: %v", ErrInternal, err)
	}

	return count == 0, nil
}

// NextAvailableDate возвращает ближайшую дату начиная с сегодняшней, с которой
// начинается свободный период. Леджер сканируется окнами по ScanWindowDays дней,
// чтобы не вычитывать всю таблицу; поиск ограничен горизонтом (horizonMonths).
// Возвращает nil, если внутри горизонта доступности нет.
func (s *Service) NextAvailableDate(ctx context.Context, apartmentID int64) (*types.Date, error) {
	today := types.DateOf(s.timeProvider.Now().UTC())
	horizon := types.DateOf(s.timeProvider.Now().UTC().AddDate(0, s.horizonMonths, 0))

	for windowStart := today; windowStart.Before(horizon); windowStart = windowStart.AddDays(domain.ScanWindowDays) {
		windowEnd := types.MinDate(windowStart.AddDays(domain.ScanWindowDays), horizon)
		window := domain.DateRange{From: windowStart, To: windowEnd}

		records, err := s.ledgerRepo.GetRange(ctx, apartmentID, window)
		if err != nil {
			s.logger.Error("NextAvailableDate: apartment=%d window=[%s, %s): %v", apartmentID, windowStart, windowEnd, err)
			return nil, fmt.Errorf("%w: NextAvailableDate - repository error: %v", ErrInternal, err)
		}

		unavailable := make(map[string]struct{}, len(records))
		for _, rec := range records {
			if !rec.IsAvailable() {
				unavailable[rec.Day.String()] = struct{}{}
			}
		}

		for day := windowStart; day.Before(windowEnd); day = day.AddDays(1) {
			if _, busy := unavailable[day.String()]; !busy {
				s.logger.Info("NextAvailableDate: apartment=%d available from %s", apartmentID, day)
				return &day, nil
			}
		}
	}

	s.logger.Info("NextAvailableDate: apartment=%d has no availability within %d months", apartmentID, s.horizonMonths)
	return nil, nil
}

// GetCalendar получает записи леджера полуинтервала для отображения календаря
func (s *Service) GetCalendar(ctx context.Context, apartmentID int64, rng domain.DateRange) (*models.CalendarResponse, error) {
	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrInvalidRange, rng.From, rng.To)
	}

	records, err := s.ledgerRepo.GetRange(ctx, apartmentID, rng)
	if err != nil {
		s.logger.Error("GetCalendar: apartment=%d range=[%s, %s): %v", apartmentID, rng.From, rng.To, err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRecords(apartmentID, records), nil
}

// SetBulkAvailability ручная правка леджера администратором.
// Даты группируются в непрерывные отрезки; все отрезки применяются в одной
// сериализуемой транзакции - правка либо видна целиком, либо не видна вовсе.
// Записи получают source=manual и общий reference, синхронизация их не трогает.
// Статус "available" снимает записи, возвращая даты к умолчанию.
func (s *Service) SetBulkAvailability(ctx context.Context, req *models.BulkAvailabilityRequest) error {
	s.logger.Info("SetBulkAvailability: apartment=%d, dates=%d, status=%s",
		req.ApartmentID, len(req.Dates), req.Status)

	if len(req.Dates) == 0 {
		return ErrNoDates
	}

	status := domain.DayStatus(req.Status)
	if !domain.IsValidDayStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	if req.Note != nil && len(*req.Note) > domain.MaxNoteLength {
		return ErrNoteTooLong
	}

	runs := groupIntoRuns(req.Dates)
	reference := uuid.New().String()

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, run := range runs {
			if status == domain.DayAvailable {
				if err := s.ledgerRepo.ClearRange(txCtx, req.ApartmentID, run); err != nil {
					return fmt.Errorf("%w: SetBulkAvailability - clear range: %v", ErrInternal, err)
				}
				continue
			}

			err := s.ledgerRepo.SetRange(txCtx, req.ApartmentID, run, status, domain.SourceManual, nil, &reference, req.Note)
			if err != nil {
				return fmt.Errorf("%w: SetBulkAvailability - set range: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SetBulkAvailability: apartment=%d failed: %v", req.ApartmentID, err)
		return err
	}

	s.logger.Info("SetBulkAvailability: apartment=%d updated %d runs, reference=%s",
		req.ApartmentID, len(runs), reference)
	return nil
}

// groupIntoRuns сортирует даты и склеивает последовательные дни
// в непрерывные полуинтервалы
func groupIntoRuns(dates []types.Date) []domain.DateRange {
	if len(dates) == 0 {
		return nil
	}

	sorted := make([]types.Date, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	runs := make([]domain.DateRange, 0)
	runStart := sorted[0]
	prev := sorted[0]

	for _, d := range sorted[1:] {
		if d.Equal(prev) {
			continue
		}
		if !d.Equal(prev.AddDays(1)) {
			runs = append(runs, domain.DateRange{From: runStart, To: prev.AddDays(1)})
			runStart = d
		}
		prev = d
	}
	runs = append(runs, domain.DateRange{From: runStart, To: prev.AddDays(1)})

	return runs
}
