package get_room_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingRoomService/internal/usecase/check_availability"
)

const (
	msgInvalidRoomID    = "некорректный ID комнаты"
	msgMissingDate      = "параметр date обязателен"
	msgInvalidQuery     = "некорректный формат даты или времени"
	msgInvalidTimeRange = "некорректный интервал времени"
	msgRoomNotFound     = "комната не найдена"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/availability?date=2025-10-15&startTime=10:00&endTime=11:00
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(mux.Vars(r)["roomId"], 10, 64)
	if err != nil || roomID <= 0 {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid room ID: %s", mux.Vars(r)["roomId"])
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	req, err := parseQuery(roomID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid query: room_id=%d, error=%v", roomID, err)
		if errors.Is(err, errMissingDate) {
			handlers.RespondBadRequest(w, msgMissingDate)
			return
		}
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, check_availability.ErrRoomNotFound):
			h.logger.Warn("GET /rooms/{id}/availability - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, check_availability.ErrInvalidTimeRange),
			errors.Is(err, check_availability.ErrInvalidInput):
			h.logger.Warn("GET /rooms/{id}/availability - Invalid time range: room_id=%d, error=%v", roomID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("GET /rooms/{id}/availability - Failed to check availability: room_id=%d, error=%v",
				roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /rooms/{id}/availability - Availability retrieved: room_id=%d, busy=%d, windows=%d",
		roomID, len(resp.Busy), len(resp.FreeWindows))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
