package sync_feed

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sync_feed: invalid input data")

	// ErrFeedNotFound возвращается, когда фид не найден
	ErrFeedNotFound = errors.New("sync_feed: feed not found")

	// ErrSyncInProgress возвращается при попытке запустить синхронизацию фида,
	// которая уже идет
	ErrSyncInProgress = errors.New("sync_feed: sync already in progress")

	// ErrFeedFetchFailed возвращается, когда внешний календарь не удалось скачать
	ErrFeedFetchFailed = errors.New("sync_feed: failed to fetch feed")

	// ErrFeedParseFailed возвращается, когда внешний календарь не удалось разобрать
	ErrFeedParseFailed = errors.New("sync_feed: failed to parse feed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sync_feed: internal error")
)
