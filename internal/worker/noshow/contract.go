package noshow

import (
	"context"

	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

// BookingsService сервис, переводящий просроченные бронирования в no_show
type BookingsService interface {
	MarkNoShows(ctx context.Context) (*models.SweepResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
