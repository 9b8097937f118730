package events

import (
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCheckedIn EventType = "booking.checked_in"
	EventBookingApproved  EventType = "booking.approved"
	EventBookingNoShow    EventType = "booking.no_show"
)

// Заголовки сообщений
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// BookingEvent полезная нагрузка события (JSON)
type BookingEvent struct {
	Type               EventType `json:"type"`
	BookingID          string    `json:"bookingId"`
	RoomID             int64     `json:"roomId"`
	RequesterID        string    `json:"requesterId"`
	BookingDate        string    `json:"bookingDate"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	Status             string    `json:"status"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	ActorID            string    `json:"actorId,omitempty"`
	OccurredAt         time.Time `json:"occurredAt"`
}

// NewBookingEvent собирает событие по состоянию бронирования
func NewBookingEvent(eventType EventType, b *domain.Booking, actorID string, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:               eventType,
		BookingID:          b.ID,
		RoomID:             b.RoomID,
		RequesterID:        b.RequesterID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.Format(domain.TimeFormat),
		EndTime:            b.EndTime.Format(domain.TimeFormat),
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		ActorID:            actorID,
		OccurredAt:         occurredAt,
	}
}
