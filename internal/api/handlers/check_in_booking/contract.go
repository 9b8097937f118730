package check_in_booking

import (
	"context"

	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

type BookingService interface {
	CheckIn(ctx context.Context, bookingID string, userID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
