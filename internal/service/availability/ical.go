package availability

import (
	"context"
	"fmt"
	"strings"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

const (
	icalProdID     = "-//colivehq//CLH-AvailabilityService//EN"
	icalDateFormat = "20060102"
	icalUIDSuffix  = "@clh-availability"
)

// ExportFeed сериализует занятые и заблокированные дни апартамента в формат
// iCalendar для внешних площадок. Чистое чтение леджера, ничего не мутирует.
// Непрерывные отрезки одного статуса склеиваются в одно событие; DTEND
// эксклюзивен, как и дата выезда.
func (s *Service) ExportFeed(ctx context.Context, apartmentID int64) (string, error) {
	today := types.DateOf(s.timeProvider.Now().UTC())
	horizon := types.DateOf(s.timeProvider.Now().UTC().AddDate(0, s.horizonMonths, 0))

	records, err := s.ledgerRepo.GetRange(ctx, apartmentID, domain.DateRange{From: today, To: horizon})
	if err != nil {
		s.logger.Error("ExportFeed: apartment=%d: %v", apartmentID, err)
		return "", fmt.Errorf("%w: ExportFeed - repository error: %v", ErrInternal, err)
	}

	runs := groupRecordsIntoRuns(records)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:" + icalProdID + "\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	for _, run := range runs {
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:apartment-%d-%s-%s%s\r\n",
			apartmentID, run.Range.From.Time().Format(icalDateFormat),
			run.Range.To.Time().Format(icalDateFormat), icalUIDSuffix)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", run.Range.From.Time().Format(icalDateFormat))
		fmt.Fprintf(&b, "DTEND;VALUE=DATE:%s\r\n", run.Range.To.Time().Format(icalDateFormat))
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", exportSummary(run.Status))
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")

	s.logger.Info("ExportFeed: apartment=%d exported %d events", apartmentID, len(runs))
	return b.String(), nil
}

// statusRun непрерывный отрезок дней одного статуса
type statusRun struct {
	Status domain.DayStatus
	Range  domain.DateRange
}

// groupRecordsIntoRuns склеивает последовательные дни одного статуса.
// Записи приходят упорядоченными по дате; доступные дни отрезок разрывают.
func groupRecordsIntoRuns(records []*domain.AvailabilityRecord) []statusRun {
	runs := make([]statusRun, 0)

	for _, rec := range records {
		if rec.IsAvailable() {
			continue
		}

		if len(runs) > 0 {
			last := &runs[len(runs)-1]
			if last.Status == rec.Status && last.Range.To.Equal(rec.Day) {
				last.Range.To = rec.Day.AddDays(1)
				continue
			}
		}

		runs = append(runs, statusRun{
			Status: rec.Status,
			Range:  domain.DateRange{From: rec.Day, To: rec.Day.AddDays(1)},
		})
	}

	return runs
}

func exportSummary(status domain.DayStatus) string {
	if status == domain.DayBlocked {
		return "Not available (blocked)"
	}
	return "Reserved"
}
