package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на действие
	ErrAccessDenied = errors.New("bookings: access denied")

	// ErrCannotCancel возвращается, когда бронирование уже не активно
	ErrCannotCancel = errors.New("bookings: booking cannot be cancelled")

	// ErrCannotCheckIn возвращается, когда бронирование не в статусе booked
	ErrCannotCheckIn = errors.New("bookings: booking cannot be checked in")

	// ErrCheckInWindowClosed возвращается, когда встреча уже закончилась
	ErrCheckInWindowClosed = errors.New("bookings: booking has already ended")

	// ErrCannotApprove возвращается, когда бронирование не ожидает подтверждения
	ErrCannotApprove = errors.New("bookings: booking is not pending approval")

	// ErrReasonRequired возвращается при отмене без причины
	ErrReasonRequired = errors.New("bookings: cancellation reason is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
