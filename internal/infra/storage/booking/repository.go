package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/psqlbuilder"
)

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"room_id",
	"room_name",
	"requester_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"cancellation_reason",
	"cancelled_at",
	"checked_in_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert сохраняет новое бронирование. ID генерируется вызывающей стороной.
// Если в контексте есть транзакция, запрос выполняется в ней.
func (r *Repository) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"id",
			"room_id",
			"room_name",
			"requester_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			booking.ID,
			booking.RoomID,
			booking.RoomName,
			booking.RequesterID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Insert - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// LockRoom берёт транзакционную advisory-блокировку комнаты.
// Блокировка держится до конца транзакции и сериализует создание бронирований одной комнаты.
func (r *Repository) LockRoom(ctx context.Context, roomID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockRoom - advisory lock requires a transaction", ErrExecQuery)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", roomID); err != nil {
		return fmt.Errorf("%w: LockRoom - room_id=%d: %w", ErrExecQuery, roomID, err)
	}
	return nil
}

// FindActiveBookings возвращает активные бронирования комнаты на дату.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) FindActiveBookings(ctx context.Context, roomID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := activeBookingsQuery(roomID, date, dbmetrics.IsInTransaction(ctx)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveBookings - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveBookings - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetWithFilter получает бронирования с фильтрацией по комнате, автору, дате и статусу.
//
// Примеры:
//
//	// расписание комнаты на день
//	domain.BookingsFilter{RoomID: &roomID, Date: &date}
//
//	// история пользователя, включая отменённые
//	domain.BookingsFilter{RequesterID: &userID, IncludeInactive: true}
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := filterQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel отменяет активное бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id string, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, "Cancel", id, query, args)
}

// TransitionStatus переводит бронирование в статус to, только если текущий статус входит в from
func (r *Repository) TransitionStatus(ctx context.Context, id string, from []domain.BookingStatus, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := transitionQuery(id, from, to).ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, "TransitionStatus", id, query, args)
}

// MarkNoShows переводит в no_show все забронированные встречи, закончившиеся к моменту now.
// Возвращает изменённые бронирования.
func (r *Repository) MarkNoShows(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusNoShow).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusBooked}).
		Where(squirrel.LtOrEq{"end_time": now}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: MarkNoShows - build update query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: MarkNoShows - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// execGuarded выполняет UPDATE с условием на статус и различает
// "бронирования нет" и "бронирование в другом статусе"
func (r *Repository) execGuarded(ctx context.Context, executor DBExecutor, op string, id string, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	existsQuery, existsArgs, err := psqlbuilder.Select("1").
		From(tableBookings).
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build exists query: %w", ErrBuildQuery, op, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, existsQuery, existsArgs...).Scan(&exists); err != nil {
		return fmt.Errorf("%w: %s - check existence: %w", ErrScanRow, op, err)
	}
	if !exists {
		return ErrBookingNotFound
	}

	return ErrStatusTransition
}
