package find_split_stay

import (
	"errors"
	"net/http"

	"github.com/colivehq/CLH-AvailabilityService/internal/api/handlers"
	findSplitStay "github.com/colivehq/CLH-AvailabilityService/internal/usecase/find_split_stay"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "некорректный интервал дат: дата выезда должна быть позже даты заезда"
	msgDateInPast         = "дата заезда уже прошла"
	msgInvalidSegments    = "некорректное максимальное число сегментов"
)

type Handler struct {
	useCase FindSplitStayUseCase
	logger  Logger
}

func NewHandler(useCase FindSplitStayUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/split-stay/search
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /split-stay/search - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /split-stay/search - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, findSplitStay.ErrInvalidRange):
			h.logger.Warn("POST /split-stay/search - Invalid range: [%s, %s)", req.CheckIn, req.CheckOut)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, findSplitStay.ErrDateInPast):
			h.logger.Warn("POST /split-stay/search - Check-in in the past: %s", req.CheckIn)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, findSplitStay.ErrInvalidInput):
			h.logger.Warn("POST /split-stay/search - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSegments)

		default:
			h.logger.Error("POST /split-stay/search - Failed: [%s, %s), error=%v", req.CheckIn, req.CheckOut, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /split-stay/search - [%s, %s): %d option(s)", req.CheckIn, req.CheckOut, len(result.Options))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
