package availability

import "errors"

var (
	// ErrInvalidRange возвращается, когда конец интервала не позже начала
	ErrInvalidRange = errors.New("availability.repository: invalid date range, end must be after start")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")

	// ErrInvalidStatus возвращается при попытке записать недопустимый статус дня
	ErrInvalidStatus = errors.New("availability.repository: invalid day status")
)
