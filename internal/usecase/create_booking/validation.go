package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.RequesterID) == "" {
		return fmt.Errorf("%w: requesterID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: date, startTime and endTime are required", ErrInvalidInput)
	}

	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidTimeRange)
	}

	// Бронирование целиком лежит в пределах одной даты
	date := domain.DateOnly(req.Date)
	if !domain.DateOnly(req.StartTime).Equal(date) || !domain.DateOnly(req.EndTime).Equal(date) {
		return fmt.Errorf("%w: interval must be within %s", ErrInvalidTimeRange, date.Format(domain.DateFormat))
	}

	if req.StartTime.Before(now) {
		return ErrBookingInPast
	}

	return nil
}
