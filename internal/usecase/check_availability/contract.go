package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindActiveBookings(ctx context.Context, roomID int64, date time.Time) ([]*domain.Booking, error)
}

// RoomRepository интерфейс каталога комнат
type RoomRepository interface {
	RoomExists(ctx context.Context, id int64) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production (UTC)
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
