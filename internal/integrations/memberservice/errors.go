package memberservice

import "errors"

var (
	// ErrMemberNotFound возвращается, когда сотрудник не найден
	ErrMemberNotFound = errors.New("member not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("memberservice client: internal error")

	// ErrUnavailable возвращается, когда MemberService недоступен (сеть, таймаут, ответ 5xx)
	ErrUnavailable = errors.New("memberservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("memberservice client: invalid response")
)
