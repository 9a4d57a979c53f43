package sync_feed

import (
	"errors"
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
	syncFeed "github.com/colivehq/CLH-AvailabilityService/internal/usecase/sync_feed"
)

const (
	msgInvalidFeedID  = "некорректный ID фида"
	msgFeedNotFound   = "фид не найден"
	msgSyncInProgress = "синхронизация фида уже идет"
	msgFetchFailed    = "не удалось скачать внешний календарь"
	msgParseFailed    = "не удалось разобрать внешний календарь"
)

// SyncResponse HTTP response model
type SyncResponse struct {
	FeedID          int64 `json:"feedId"`
	ApartmentID     int64 `json:"apartmentId"`
	EventsProcessed int   `json:"eventsProcessed"`
	DaysWritten     int   `json:"daysWritten"`
	DaysCleared     int   `json:"daysCleared"`
}

type Handler struct {
	useCase SyncFeedUseCase
	logger  Logger
}

func NewHandler(useCase SyncFeedUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/feeds/{feedId}/sync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	feedID, err := handlers.PathInt64(r, "feedId")
	if err != nil {
		h.logger.Warn("POST /feeds/{id}/sync - Invalid feed ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFeedID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &syncFeed.Request{FeedID: feedID})
	if err != nil {
		switch {
		case errors.Is(err, syncFeed.ErrFeedNotFound):
			h.logger.Warn("POST /feeds/{id}/sync - Feed not found: feed_id=%d", feedID)
			handlers.RespondNotFound(w, msgFeedNotFound)

		case errors.Is(err, syncFeed.ErrSyncInProgress):
			h.logger.Warn("POST /feeds/{id}/sync - Sync in progress: feed_id=%d", feedID)
			handlers.RespondConflict(w, msgSyncInProgress)

		case errors.Is(err, syncFeed.ErrFeedFetchFailed):
			h.logger.Warn("POST /feeds/{id}/sync - Fetch failed: feed_id=%d, error=%v", feedID, err)
			handlers.RespondBadGateway(w, msgFetchFailed)

		case errors.Is(err, syncFeed.ErrFeedParseFailed):
			h.logger.Warn("POST /feeds/{id}/sync - Parse failed: feed_id=%d, error=%v", feedID, err)
			handlers.RespondBadGateway(w, msgParseFailed)

		default:
			h.logger.Error("POST /feeds/{id}/sync - Failed: feed_id=%d, error=%v", feedID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /feeds/{id}/sync - Synced feed_id=%d: events=%d, written=%d, cleared=%d",
		feedID, result.EventsProcessed, result.DaysWritten, result.DaysCleared)
	handlers.RespondJSON(w, http.StatusOK, SyncResponse{
		FeedID:          result.FeedID,
		ApartmentID:     result.ApartmentID,
		EventsProcessed: result.EventsProcessed,
		DaysWritten:     result.DaysWritten,
		DaysCleared:     result.DaysCleared,
	})
}
