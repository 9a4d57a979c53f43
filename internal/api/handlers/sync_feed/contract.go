package sync_feed

import (
	"context"

	syncFeed "github.com/colivehq/CLH-AvailabilityService/internal/usecase/sync_feed"
)

type SyncFeedUseCase interface {
	Execute(ctx context.Context, req *syncFeed.Request) (*syncFeed.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
