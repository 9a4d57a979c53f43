package sync_feed

// Request модель запроса на синхронизацию фида
type Request struct {
	FeedID int64
}

// Response результат синхронизации
type Response struct {
	FeedID          int64
	ApartmentID     int64
	EventsProcessed int // событий во внешнем календаре
	DaysWritten     int // дней занято записями фида
	DaysCleared     int // устаревших дней фида освобождено
}
