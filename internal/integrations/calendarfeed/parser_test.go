package calendarfeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

const sampleCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Airbnb Inc//Hosting Calendar 1.0//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:abc-123@airbnb.com\r\n" +
	"DTSTART;VALUE=DATE:20260110\r\n" +
	"DTEND;VALUE=DATE:20260115\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseCalendar(t *testing.T) {
	events, err := ParseCalendar(sampleCalendar)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "abc-123@airbnb.com", events[0].UID)
	assert.Equal(t, types.NewDate(2026, time.January, 10), events[0].Range.From)
	// DTEND эксклюзивен: выезд 15-го, занята ночь на 14-е
	assert.Equal(t, types.NewDate(2026, time.January, 15), events[0].Range.To)
}

func TestParseCalendarFoldedLines(t *testing.T) {
	folded := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:folded-\r\n" +
		" event@example.com\r\n" +
		"DTSTART;VALUE=DATE:20260201\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ParseCalendar(folded)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "folded-event@example.com", events[0].UID)
}

func TestParseCalendarDefaultsDTEnd(t *testing.T) {
	text := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:one-night@example.com\r\n" +
		"DTSTART;VALUE=DATE:20260201\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ParseCalendar(text)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Без DTEND событие занимает одну ночь
	assert.Equal(t, 1, events[0].Range.Nights())
}

func TestParseCalendarDateTimeValues(t *testing.T) {
	text := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:dt@example.com\r\n" +
		"DTSTART:20260301T140000Z\r\n" +
		"DTEND:20260301T230000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := ParseCalendar(text)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Окончание внутри того же дня округляется вверх до следующей даты
	assert.Equal(t, types.NewDate(2026, time.March, 1), events[0].Range.From)
	assert.Equal(t, types.NewDate(2026, time.March, 2), events[0].Range.To)
}

func TestParseCalendarRejectsInvalid(t *testing.T) {
	// Нет VCALENDAR
	_, err := ParseCalendar("BEGIN:VEVENT\r\nUID:x\r\nDTSTART:20260101\r\nEND:VEVENT\r\n")
	assert.ErrorIs(t, err, ErrParseFailed)

	// Событие без UID
	noUID := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"DTSTART;VALUE=DATE:20260201\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	_, err = ParseCalendar(noUID)
	assert.ErrorIs(t, err, ErrParseFailed)

	// Незакрытый VEVENT
	unterminated := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:x@example.com\r\n" +
		"DTSTART;VALUE=DATE:20260201\r\n" +
		"END:VCALENDAR\r\n"
	_, err = ParseCalendar(unterminated)
	assert.ErrorIs(t, err, ErrParseFailed)

	// Нечитаемая дата
	badDate := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:x@example.com\r\n" +
		"DTSTART;VALUE=DATE:tomorrow\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	_, err = ParseCalendar(badDate)
	assert.ErrorIs(t, err, ErrParseFailed)
}
