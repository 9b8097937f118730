package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

const (
	msgInvalidRequest = "некорректный ID пользователя или статус"
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

// Handle GET /api/v1/users/{userId}/bookings?status=booked
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.GetUserBookingsRequest{
		UserID: mux.Vars(r)["userId"],
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetUserBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /users/{id}/bookings - Invalid request: user_id=%s, error=%v", req.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /users/{id}/bookings - Failed to get bookings: user_id=%s, error=%v", req.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/bookings - Bookings retrieved successfully: user_id=%s, count=%d",
		req.UserID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
