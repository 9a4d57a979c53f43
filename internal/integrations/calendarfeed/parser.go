package calendarfeed

import (
	"fmt"
	"strings"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// Форматы значений дат iCalendar (RFC 5545)
const (
	icalDateFormat     = "20060102"
	icalDateTimeFormat = "20060102T150405"
	icalDateTimeUTC    = "20060102T150405Z"
)

// ParseCalendar разбирает текст iCalendar в список занятых интервалов.
// Из каждого VEVENT берутся UID, DTSTART и DTEND; DTEND эксклюзивен для
// значений VALUE=DATE, как того требует RFC 5545. Событие без UID или с
// нечитаемой датой делает весь календарь невалидным - частичный разбор
// запрещён, чтобы синхронизация не применяла урезанный набор событий.
func ParseCalendar(text string) ([]domain.FeedEvent, error) {
	lines := unfoldLines(text)

	sawCalendar := false
	inEvent := false
	var uid, dtStart, dtEnd string

	events := make([]domain.FeedEvent, 0)

	for _, line := range lines {
		name, value := splitContentLine(line)

		switch name {
		case "BEGIN":
			if value == "VCALENDAR" {
				sawCalendar = true
			}
			if value == "VEVENT" {
				inEvent = true
				uid, dtStart, dtEnd = "", "", ""
			}
		case "END":
			if value != "VEVENT" || !inEvent {
				continue
			}
			inEvent = false

			event, err := buildEvent(uid, dtStart, dtEnd)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
		case "UID":
			if inEvent {
				uid = value
			}
		case "DTSTART":
			if inEvent {
				dtStart = value
			}
		case "DTEND":
			if inEvent {
				dtEnd = value
			}
		}
	}

	if !sawCalendar {
		return nil, fmt.Errorf("%w: no VCALENDAR block", ErrParseFailed)
	}
	if inEvent {
		return nil, fmt.Errorf("%w: unterminated VEVENT block", ErrParseFailed)
	}

	return events, nil
}

// buildEvent собирает занятый интервал из полей VEVENT
func buildEvent(uid, dtStart, dtEnd string) (domain.FeedEvent, error) {
	if uid == "" {
		return domain.FeedEvent{}, fmt.Errorf("%w: VEVENT without UID", ErrParseFailed)
	}
	if dtStart == "" {
		return domain.FeedEvent{}, fmt.Errorf("%w: VEVENT %s without DTSTART", ErrParseFailed, uid)
	}

	start, err := parseICalDate(dtStart)
	if err != nil {
		return domain.FeedEvent{}, fmt.Errorf("%w: VEVENT %s - bad DTSTART %q", ErrParseFailed, uid, dtStart)
	}

	// DTEND может отсутствовать - событие занимает один день
	end := start.AddDays(1)
	if dtEnd != "" {
		end, err = parseICalDate(dtEnd)
		if err != nil {
			return domain.FeedEvent{}, fmt.Errorf("%w: VEVENT %s - bad DTEND %q", ErrParseFailed, uid, dtEnd)
		}
		// DATE-TIME окончание внутри дня округляем вверх до следующей даты
		if !end.After(start) {
			end = start.AddDays(1)
		}
	}

	return domain.FeedEvent{
		UID:   uid,
		Range: domain.DateRange{From: start, To: end},
	}, nil
}

// parseICalDate парсит значение даты iCalendar (DATE или DATE-TIME)
func parseICalDate(value string) (types.Date, error) {
	for _, format := range []string{icalDateFormat, icalDateTimeUTC, icalDateTimeFormat} {
		if t, err := time.Parse(format, value); err == nil {
			return types.DateOf(t), nil
		}
	}
	return types.Date{}, fmt.Errorf("unsupported date value %q", value)
}

// unfoldLines разворачивает переносы строк iCalendar: строка, начинающаяся
// с пробела или табуляции, является продолжением предыдущей
func unfoldLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))

	for _, line := range raw {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}

	return lines
}

// splitContentLine разбирает строку "NAME;PARAM=...:VALUE" на имя свойства и значение.
// Параметры свойства (VALUE=DATE, TZID и т.п.) отбрасываются.
func splitContentLine(line string) (name, value string) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return strings.ToUpper(strings.TrimSpace(line)), ""
	}

	name = line[:colon]
	value = strings.TrimSpace(line[colon+1:])

	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}

	return strings.ToUpper(strings.TrimSpace(name)), value
}
