package find_split_stay

import (
	"context"

	findSplitStay "github.com/colivehq/CLH-AvailabilityService/internal/usecase/find_split_stay"
)

type FindSplitStayUseCase interface {
	Execute(ctx context.Context, req *findSplitStay.Request) (*findSplitStay.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
