package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// DateFormat формат календарной даты (YYYY-MM-DD)
const DateFormat = "2006-01-02"

var (
	// ErrInvalidDateFormat возвращается при некорректном формате даты
	ErrInvalidDateFormat = errors.New("types: invalid date format, expected YYYY-MM-DD")

	// ErrInvalidDateValue возвращается при несовместимом значении из БД
	ErrInvalidDateValue = errors.New("types: unsupported value for date")
)

// Date календарная дата без времени суток (полночь UTC).
// Используется для ежедневного учёта доступности: единица измерения - одна ночь.
type Date struct {
	t time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf обрезает time.Time до календарной даты
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today возвращает сегодняшнюю дату (UTC)
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate парсит дату из строки формата YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return DateOf(t), nil
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	return d.t.Format(DateFormat)
}

// Time возвращает полночь UTC этой даты
func (d Date) Time() time.Time {
	return d.t
}

// IsZero проверяет, что дата не задана
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// AddDays возвращает дату, сдвинутую на n дней (n может быть отрицательным)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before проверяет, что дата строго раньше other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After проверяет, что дата строго позже other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal проверяет совпадение дат
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysUntil возвращает количество дней от d до other.
// Для полуинтервала [d, other) это количество ночей.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t) / (24 * time.Hour))
}

// MarshalJSON сериализует дату как строку YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON парсит дату из строки YYYY-MM-DD
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrInvalidDateFormat
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer для записи в БД
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan реализует sql.Scanner для чтения из БД
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v.UTC())
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrInvalidDateValue, src)
	}
}

// MinDate возвращает меньшую из двух дат
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxDate возвращает большую из двух дат
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
