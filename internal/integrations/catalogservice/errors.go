package catalogservice

import "errors"

var (
	// ErrApartmentNotFound возвращается, когда апартамент не найден в каталоге
	ErrApartmentNotFound = errors.New("catalogservice: apartment not found")

	// ErrInvalidResponse возвращается при некорректном ответе каталога
	ErrInvalidResponse = errors.New("catalogservice: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice: internal error")
)
