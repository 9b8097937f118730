package booking

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/psqlbuilder"
)

// activeBookingsQuery запрос активных бронирований комнаты на дату (партиция проверки конфликтов)
func activeBookingsQuery(roomID int64, date time.Time, lock bool) squirrel.SelectBuilder {
	q := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"booking_date": domain.DateOnly(date)}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		OrderBy("start_time ASC")

	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

func filterQuery(filter domain.BookingsFilter) squirrel.SelectBuilder {
	q := psqlbuilder.Select(bookingColumns...).From(tableBookings)

	if filter.RoomID != nil {
		q = q.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.RequesterID != nil {
		q = q.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if filter.Date != nil {
		q = q.Where(squirrel.Eq{"booking_date": domain.DateOnly(*filter.Date)})
	}

	// Конкретный статус важнее флага IncludeInactive
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		q = q.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	// Расписание комнаты на день читается по порядку, история - с конца
	if filter.IsSingleRoomDay() {
		q = q.OrderBy("start_time ASC")
	} else {
		q = q.OrderBy("start_time DESC")
	}

	return q
}

func transitionQuery(id string, from []domain.BookingStatus, to domain.BookingStatus) squirrel.UpdateBuilder {
	q := psqlbuilder.Update(tableBookings).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()"))

	if to == domain.StatusCheckedIn {
		q = q.Set("checked_in_at", squirrel.Expr("NOW()"))
	}

	return q.
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings(from)})
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.RoomName,
		&booking.RequesterID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CheckedInAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
