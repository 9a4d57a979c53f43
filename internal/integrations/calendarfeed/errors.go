package calendarfeed

import "errors"

var (
	// ErrFetchFailed возвращается, когда внешний календарь не удалось скачать
	ErrFetchFailed = errors.New("calendarfeed: failed to fetch remote calendar")

	// ErrParseFailed возвращается, когда скачанный календарь не удалось разобрать
	ErrParseFailed = errors.New("calendarfeed: failed to parse remote calendar")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarfeed: internal error")
)
