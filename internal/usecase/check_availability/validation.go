package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Интервал передается целиком или не передается вовсе
	if (req.StartTime == nil) != (req.EndTime == nil) {
		return fmt.Errorf("%w: startTime and endTime must be set together", ErrInvalidInput)
	}
	if req.StartTime == nil {
		return nil
	}

	if !req.StartTime.Before(*req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidTimeRange)
	}

	date := domain.DateOnly(req.Date)
	if !domain.DateOnly(*req.StartTime).Equal(date) || !domain.DateOnly(*req.EndTime).Equal(date) {
		return fmt.Errorf("%w: interval must be within %s", ErrInvalidTimeRange, date.Format(domain.DateFormat))
	}

	return nil
}
