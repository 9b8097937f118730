package check_in_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingRoomService/internal/api/middleware"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "подтвердить использование может только автор бронирования"
	msgCannotCheckIn    = "бронирование не может быть подтверждено"
	msgWindowClosed     = "встреча уже закончилась"
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

// Handle PATCH /api/v1/bookings/{bookingId}/check-in
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if _, err := uuid.Parse(bookingID); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/check-in - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/check-in - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.CheckIn(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/check-in - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/check-in - Access denied: booking_id=%s, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotCheckIn):
			h.logger.Warn("PATCH /bookings/{id}/check-in - Cannot check in: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgCannotCheckIn)

		case errors.Is(err, bookings.ErrCheckInWindowClosed):
			h.logger.Warn("PATCH /bookings/{id}/check-in - Meeting already ended: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgWindowClosed)

		default:
			h.logger.Error("PATCH /bookings/{id}/check-in - Failed to check in: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/check-in - Booking checked in: booking_id=%s, user_id=%s", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
