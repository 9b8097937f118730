package sweep_no_shows

import (
	"net/http"

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/no-show-sweep
// Ручной запуск того же перевода, который периодически делает фоновый воркер.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MarkNoShows(r.Context())
	if err != nil {
		h.logger.Error("POST /bookings/no-show-sweep - Failed to mark no-shows: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings/no-show-sweep - Marked %d bookings as no_show", result.MarkedCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
