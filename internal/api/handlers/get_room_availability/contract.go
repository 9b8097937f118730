package get_room_availability

import (
	"context"

	"github.com/m04kA/SMC-MeetingRoomService/internal/usecase/check_availability"
)

type UseCase interface {
	Execute(ctx context.Context, req *check_availability.Request) (*check_availability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
