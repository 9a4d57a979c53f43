package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidRange возвращается при некорректном интервале дат сегмента
	ErrInvalidRange = errors.New("create_booking: invalid date range")

	// ErrDateInPast возвращается, когда дата заезда уже прошла
	ErrDateInPast = errors.New("create_booking: check-in date is in the past")

	// ErrTooManySegments возвращается при превышении лимита сегментов
	ErrTooManySegments = errors.New("create_booking: too many segments")

	// ErrSegmentsNotContiguous возвращается, когда сегменты split-stay не
	// стыкуются: дата выезда предыдущего не равна дате заезда следующего
	ErrSegmentsNotContiguous = errors.New("create_booking: segments have gaps or overlaps")

	// ErrApartmentReused возвращается, когда один апартамент используется
	// в нескольких сегментах одного бронирования
	ErrApartmentReused = errors.New("create_booking: apartment reused across segments")

	// ErrApartmentNotFound возвращается, когда апартамент не найден в каталоге
	ErrApartmentNotFound = errors.New("create_booking: apartment not found")

	// ErrApartmentNotBookable возвращается, когда апартамент операционно
	// недоступен (обслуживание и т.п.)
	ErrApartmentNotBookable = errors.New("create_booking: apartment is not bookable")

	// ErrConflict возвращается, когда повторная проверка перед подтверждением
	// нашла занятые даты - гонка проиграна конкурентному бронированию
	ErrConflict = errors.New("create_booking: dates no longer available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
