package domain

import (
	"errors"
	"time"
)

// Business rules
const (
	// MinGapBetweenBookings минимальный промежуток между границами бронирований одной комнаты
	MinGapBetweenBookings = time.Hour

	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, участвующие в проверке конфликтов
var ActiveStatuses = []BookingStatus{
	StatusBooked,
	StatusPendingApproval,
}

// InactiveStatuses статусы, которые не занимают комнату
var InactiveStatuses = []BookingStatus{
	StatusNoShow,
	StatusCheckedIn,
	StatusCancelled,
}

// ErrUnknownStatus возвращается при разборе неизвестного статуса
var ErrUnknownStatus = errors.New("domain: unknown booking status")

// DateOnly отбрасывает время, оставляя полночь той же даты в той же зоне
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AtTime собирает момент времени из даты и времени суток "HH:MM"
func AtTime(date time.Time, clock time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, date.Location())
}
