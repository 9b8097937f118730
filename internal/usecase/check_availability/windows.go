package check_availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

// lastMinuteOfDay последний момент, в который может закончиться бронирование на дату
const lastMinuteOfDay = 24*time.Hour - time.Minute

// freeWindows вычисляет окна, внутри которых любой интервал пройдет проверку конфликтов.
// Каждое активное бронирование [s, e) закрывает участок [s - gap, e + gap],
// окна - это дополнение объединения таких участков в пределах даты.
// Для сегодняшней даты окна начинаются с первой целой минуты не раньше now.
func freeWindows(date time.Time, now time.Time, bookings []*domain.Booking) []Window {
	dayStart := domain.DateOnly(date)
	dayEnd := dayStart.Add(lastMinuteOfDay)

	cursor := dayStart
	if now.After(cursor) {
		cursor = ceilMinute(now)
	}
	if !cursor.Before(dayEnd) {
		return []Window{}
	}

	active := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].StartTime.Before(active[j].StartTime)
	})

	windows := make([]Window, 0, len(active)+1)
	for _, b := range active {
		blockedFrom := b.StartTime.Add(-domain.MinGapBetweenBookings)
		blockedTo := b.EndTime.Add(domain.MinGapBetweenBookings)

		if cursor.Before(blockedFrom) {
			end := blockedFrom
			if end.After(dayEnd) {
				end = dayEnd
			}
			if cursor.Before(end) {
				windows = append(windows, Window{StartTime: cursor, EndTime: end})
			}
		}
		if blockedTo.After(cursor) {
			cursor = blockedTo
		}
		if !cursor.Before(dayEnd) {
			return windows
		}
	}

	windows = append(windows, Window{StartTime: cursor, EndTime: dayEnd})
	return windows
}

// ceilMinute округляет вверх до целой минуты
func ceilMinute(t time.Time) time.Time {
	rounded := t.Truncate(time.Minute)
	if rounded.Before(t) {
		rounded = rounded.Add(time.Minute)
	}
	return rounded
}

// checkCandidate проверяет интервал тем же правилом, что и создание бронирования
func checkCandidate(start, end, now time.Time, bookings []*domain.Booking) *Candidate {
	candidate := &Candidate{StartTime: start, EndTime: end}

	if start.Before(now) {
		candidate.Reason = ReasonInPast
		return candidate
	}

	result, conflict := domain.CheckAdmission(start, end, bookings)
	switch result {
	case domain.AdmissionOverlap:
		candidate.Reason = ReasonOverlap
	case domain.AdmissionInsufficientGap:
		candidate.Reason = ReasonInsufficientGap
	default:
		candidate.Available = true
	}
	if conflict != nil {
		id := conflict.ID
		candidate.ConflictingBookingID = &id
	}

	return candidate
}
