package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrRoomAlreadyBooked единственная ошибка конфликта, которую видит пользователь
	ErrRoomAlreadyBooked = errors.New("create_booking: room already booked in this period")

	// ErrOverlap интервал пересекается с активным бронированием
	ErrOverlap = fmt.Errorf("%w: overlaps an active booking", ErrRoomAlreadyBooked)

	// ErrInsufficientGap между границами бронирований меньше часа
	ErrInsufficientGap = fmt.Errorf("%w: less than one hour from an active booking", ErrRoomAlreadyBooked)

	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = errors.New("create_booking: room not found")

	// ErrMemberNotFound возвращается, когда автор бронирования не найден в справочнике
	ErrMemberNotFound = errors.New("create_booking: member not found")

	// ErrMemberInactive возвращается, когда автор бронирования уволен или на пенсии
	ErrMemberInactive = errors.New("create_booking: member is not active")

	// ErrMemberServiceUnavailable возвращается, когда справочник сотрудников недоступен
	ErrMemberServiceUnavailable = errors.New("create_booking: member service unavailable")

	// ErrInvalidTimeRange возвращается, когда начало не раньше конца или интервал выходит за дату
	ErrInvalidTimeRange = errors.New("create_booking: invalid time range")

	// ErrBookingInPast возвращается при попытке забронировать уже начавшийся интервал
	ErrBookingInPast = errors.New("create_booking: booking starts in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
