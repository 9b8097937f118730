package domain

import "time"

// AdmissionResult решение проверки конфликтов для новой заявки
type AdmissionResult int

const (
	AdmissionAccepted AdmissionResult = iota
	AdmissionOverlap
	AdmissionInsufficientGap
)

func (r AdmissionResult) String() string {
	switch r {
	case AdmissionAccepted:
		return "admitted"
	case AdmissionOverlap:
		return "overlap"
	case AdmissionInsufficientGap:
		return "insufficient_gap"
	default:
		return "unknown"
	}
}

// CheckAdmission решает, можно ли добавить интервал [start, end) к бронированиям
// той же комнаты на ту же дату. Неактивные бронирования игнорируются.
// Сначала проверяется пересечение по всем бронированиям, затем минимальный промежуток.
// Возвращает решение и бронирование, из-за которого заявка отклонена.
func CheckAdmission(start, end time.Time, existing []*Booking) (AdmissionResult, *Booking) {
	for _, b := range existing {
		if b.IsActive() && Overlaps(b, start, end) {
			return AdmissionOverlap, b
		}
	}

	for _, b := range existing {
		if b.IsActive() && TooClose(b, start, end) {
			return AdmissionInsufficientGap, b
		}
	}

	return AdmissionAccepted, nil
}

// Overlaps проверяет пересечение бронирования с интервалом [start, end).
// Касание границ (b.End == start или b.Start == end) пересечением не считается.
func Overlaps(b *Booking, start, end time.Time) bool {
	startsInside := !b.StartTime.After(start) && b.EndTime.After(start)
	endsInside := b.StartTime.Before(end) && !b.EndTime.Before(end)
	covers := !start.After(b.StartTime) && !end.Before(b.EndTime)

	return startsInside || endsInside || covers
}

// TooClose проверяет, что какая-то граница бронирования ближе MinGapBetweenBookings
// к какой-то границе интервала [start, end). Ровно час допустим.
func TooClose(b *Booking, start, end time.Time) bool {
	return absDuration(b.StartTime.Sub(start)) < MinGapBetweenBookings ||
		absDuration(b.EndTime.Sub(end)) < MinGapBetweenBookings ||
		absDuration(b.StartTime.Sub(end)) < MinGapBetweenBookings ||
		absDuration(b.EndTime.Sub(start)) < MinGapBetweenBookings
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
