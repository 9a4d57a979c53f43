package find_split_stay

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_split_stay: invalid input data")

	// ErrInvalidRange возвращается при некорректном интервале дат
	ErrInvalidRange = errors.New("find_split_stay: invalid date range")

	// ErrDateInPast возвращается, когда дата заезда уже прошла
	ErrDateInPast = errors.New("find_split_stay: check-in date is in the past")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_split_stay: internal error")
)
