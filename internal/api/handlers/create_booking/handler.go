package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingRoomService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-MeetingRoomService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgRoomAlreadyBooked  = "комната уже забронирована на этот период"
	msgRoomNotFound       = "комната не найдена"
	msgMemberNotFound     = "сотрудник не найден"
	msgMemberInactive     = "сотрудник не может бронировать комнаты"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания в пределах одной даты"
	msgBookingInPast      = "нельзя забронировать уже начавшийся интервал"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrRoomAlreadyBooked):
			h.logger.Warn("POST /bookings - Room already booked: user_id=%s, room_id=%d, reason=%v", userID, req.RoomID, err)
			handlers.RespondConflict(w, msgRoomAlreadyBooked)

		case errors.Is(err, createBooking.ErrRoomNotFound):
			h.logger.Warn("POST /bookings - Room not found: room_id=%d", req.RoomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, createBooking.ErrMemberNotFound):
			h.logger.Warn("POST /bookings - Member not found: user_id=%s", userID)
			handlers.RespondNotFound(w, msgMemberNotFound)

		case errors.Is(err, createBooking.ErrMemberInactive):
			h.logger.Warn("POST /bookings - Member inactive: user_id=%s", userID)
			handlers.RespondForbidden(w, msgMemberInactive)

		case errors.Is(err, createBooking.ErrMemberServiceUnavailable):
			h.logger.Error("POST /bookings - Member service unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		case errors.Is(err, createBooking.ErrInvalidTimeRange):
			h.logger.Warn("POST /bookings - Invalid time range: user_id=%s, room_id=%d", userID, req.RoomID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createBooking.ErrBookingInPast):
			h.logger.Warn("POST /bookings - Booking in the past: user_id=%s, room_id=%d", userID, req.RoomID)
			handlers.RespondBadRequest(w, msgBookingInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, room_id=%d, error=%v",
				userID, req.RoomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%s, room_id=%d, status=%s",
		result.ID, userID, req.RoomID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
