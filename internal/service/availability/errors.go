package availability

import "errors"

var (
	// ErrInvalidRange возвращается при некорректном интервале дат
	ErrInvalidRange = errors.New("availability: invalid date range")

	// ErrInvalidStatus возвращается при недопустимом статусе дня
	ErrInvalidStatus = errors.New("availability: invalid day status")

	// ErrNoDates возвращается, когда в запросе на ручную правку нет ни одной даты
	ErrNoDates = errors.New("availability: no dates provided")

	// ErrNoteTooLong возвращается, когда заметка превышает допустимую длину
	ErrNoteTooLong = errors.New("availability: note is too long")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
