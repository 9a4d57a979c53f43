package feed

import "errors"

var (
	// ErrFeedNotFound возвращается, когда фид синхронизации не найден
	ErrFeedNotFound = errors.New("feed.repository: sync feed not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("feed.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("feed.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("feed.repository: failed to scan row")
)
