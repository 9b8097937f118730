package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusBooked          BookingStatus = "booked"
	StatusNoShow          BookingStatus = "no_show"
	StatusCheckedIn       BookingStatus = "checked_in"
	StatusPendingApproval BookingStatus = "pending_approval"
	StatusCancelled       BookingStatus = "cancelled"
)

// Booking represents a reservation of a meeting room for an interval on one date
type Booking struct {
	ID          string // UUID v4
	RoomID      int64
	RoomName    string // Denormalized at creation
	RequesterID string
	BookingDate time.Time
	StartTime   time.Time
	EndTime     time.Time
	Status      BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time
	CheckedInAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its room (blocks other bookings)
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusBooked || b.Status == StatusPendingApproval
}

// CanCheckIn returns true if usage of the room can be confirmed
func (b *Booking) CanCheckIn() bool {
	return b.Status == StatusBooked
}

// CanBeApproved returns true if the booking is waiting for approval
func (b *Booking) CanBeApproved() bool {
	return b.Status == StatusPendingApproval
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusNoShow
}

// IsActive returns true for statuses that take part in conflict checking
func (s BookingStatus) IsActive() bool {
	return s == StatusBooked || s == StatusPendingApproval
}

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusBooked, StatusNoShow, StatusCheckedIn, StatusPendingApproval, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseBookingStatus converts a string to BookingStatus with validation
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// BookingsFilter фильтр для получения списка бронирований
type BookingsFilter struct {
	RoomID          *int64         // Фильтр по комнате (опционально)
	RequesterID     *string        // Фильтр по автору бронирования (опционально)
	Date            *time.Time     // Фильтр по дате (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые, no-show и завершённые бронирования
}

// IsSingleRoomDay returns true if the filter selects exactly one room partition
func (f BookingsFilter) IsSingleRoomDay() bool {
	return f.RoomID != nil && f.Date != nil
}
