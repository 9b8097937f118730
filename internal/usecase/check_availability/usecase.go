package check_availability

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

// UseCase use case для просмотра занятости комнаты на дату
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает занятые интервалы, свободные окна и, если передан интервал, решение по нему.
// Результат не резервирует комнату: создание бронирования проверяет конфликты заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: room=%d, date=%s", req.RoomID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование комнаты
	exists, err := uc.roomRepo.RoomExists(ctx, req.RoomID)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to check room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to check room: %w", ErrInternal, err)
	}
	if !exists {
		uc.logger.Warn("CheckAvailability: room id=%d not found", req.RoomID)
		return nil, ErrRoomNotFound
	}

	// 3. Активные бронирования комнаты на дату
	date := domain.DateOnly(req.Date)
	bookings, err := uc.bookingRepo.FindActiveBookings(ctx, req.RoomID, date)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	busy := make([]BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		busy = append(busy, BusyInterval{
			BookingID: b.ID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Status:    string(b.Status),
		})
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].StartTime.Before(busy[j].StartTime)
	})

	resp := &Response{
		RoomID:      req.RoomID,
		Date:        date,
		Busy:        busy,
		FreeWindows: freeWindows(date, now, bookings),
	}

	// 4. Проверяем интервал, если он передан
	if req.StartTime != nil {
		resp.Candidate = checkCandidate(*req.StartTime, *req.EndTime, now, bookings)
		uc.logger.Info("CheckAvailability: room=%d interval=%s-%s available=%t reason=%s", req.RoomID,
			req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat),
			resp.Candidate.Available, resp.Candidate.Reason)
	}

	uc.logger.Info("CheckAvailability: room=%d has %d active bookings and %d free windows on %s",
		req.RoomID, len(resp.Busy), len(resp.FreeWindows), date.Format(domain.DateFormat))

	return resp, nil
}
