package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/internal/infra/events"
	"github.com/m04kA/SMC-MeetingRoomService/internal/integrations/memberservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockRoom(ctx context.Context, roomID int64) error
	FindActiveBookings(ctx context.Context, roomID int64, date time.Time) ([]*domain.Booking, error)
	Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// RoomRepository интерфейс каталога комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// MemberServiceClient интерфейс клиента для MemberService
type MemberServiceClient interface {
	GetMember(ctx context.Context, memberID string) (*memberservice.Member, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события жизненного цикла бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// MetricsRecorder считает решения проверки конфликтов
type MetricsRecorder interface {
	ObserveAdmission(outcome string)
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
