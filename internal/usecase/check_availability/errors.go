package check_availability

import "errors"

var (
	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = errors.New("check_availability: room not found")

	// ErrInvalidTimeRange возвращается, когда начало не раньше конца или интервал выходит за дату
	ErrInvalidTimeRange = errors.New("check_availability: invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_availability: internal error")
)
