package rooms

import (
	"context"
	"errors"
	"fmt"

	roomRepo "github.com/m04kA/SMC-MeetingRoomService/internal/infra/storage/room"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/rooms/models"
)

// Service сервис чтения каталога комнат
type Service struct {
	roomRepo RoomRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса комнат
func NewService(roomRepo RoomRepository, logger Logger) *Service {
	return &Service{
		roomRepo: roomRepo,
		logger:   logger,
	}
}

// GetByID получает комнату по ID.
// Публичный метод - доступен без авторизации
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RoomResponse, error) {
	s.logger.Info("GetByID: fetching room id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			s.logger.Warn("GetByID: room id=%d not found", id)
			return nil, ErrRoomNotFound
		}
		s.logger.Error("GetByID: repository error for room id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched room id=%d", id)
	return models.FromDomainRoom(room), nil
}
