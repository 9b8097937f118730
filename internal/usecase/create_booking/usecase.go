package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/internal/infra/events"
	roomRepo "github.com/m04kA/SMC-MeetingRoomService/internal/infra/storage/room"
	memberClient "github.com/m04kA/SMC-MeetingRoomService/internal/integrations/memberservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	memberClient MemberServiceClient
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	memberClient MemberServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		memberClient: memberClient,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка конфликтов и вставка выполняются в одной SERIALIZABLE транзакции.
// Снимок транзакции берётся до ожидания advisory-блокировки, поэтому ожидавшая
// заявка может прочитать устаревший список бронирований. Из двух конкурирующих
// заявок одну прерывает Postgres с 40001, DoSerializable повторяет её целиком,
// и повтор уже видит зафиксированное бронирование. Блокировка сокращает число
// таких откатов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%s, room=%d, date=%s, interval=%s-%s",
		req.RequesterID, req.RoomID, req.Date.Format(domain.DateFormat),
		req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем автора бронирования
	member, err := uc.memberClient.GetMember(ctx, req.RequesterID)
	if err != nil {
		switch {
		case errors.Is(err, memberClient.ErrMemberNotFound):
			uc.logger.Warn("CreateBooking: member id=%s not found", req.RequesterID)
			return nil, ErrMemberNotFound
		case errors.Is(err, memberClient.ErrUnavailable):
			uc.logger.Error("CreateBooking: member service unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrMemberServiceUnavailable, err)
		default:
			uc.logger.Error("CreateBooking: failed to get member id=%s: %v", req.RequesterID, err)
			return nil, fmt.Errorf("%w: failed to get member: %v", ErrInternal, err)
		}
	}
	if !member.IsActive() {
		uc.logger.Warn("CreateBooking: member id=%s is not active (status=%d)", req.RequesterID, member.Status)
		return nil, ErrMemberInactive
	}

	// 3. Получаем комнату: существование и необходимость подтверждения
	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CreateBooking: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("CreateBooking: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	initialStatus := domain.StatusBooked
	if room.RequiresApproval {
		initialStatus = domain.StatusPendingApproval
	}

	var (
		result  *domain.Booking
		outcome domain.AdmissionResult
	)

	// 4. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокируем комнату до конца транзакции
		if err := uc.bookingRepo.LockRoom(txCtx, req.RoomID); err != nil {
			uc.logger.Error("CreateBooking: failed to lock room id=%d: %v", req.RoomID, err)
			return fmt.Errorf("%w: failed to lock room: %w", ErrInternal, err)
		}

		// 4.2. Активные бронирования комнаты на дату
		existing, err := uc.bookingRepo.FindActiveBookings(txCtx, req.RoomID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 4.3. Проверяем пересечения и минимальный промежуток
		var conflict *domain.Booking
		outcome, conflict = domain.CheckAdmission(req.StartTime, req.EndTime, existing)
		switch outcome {
		case domain.AdmissionOverlap:
			uc.logger.Warn("CreateBooking: room id=%d overlaps booking id=%s (%s-%s)", req.RoomID,
				conflict.ID, conflict.StartTime.Format(domain.TimeFormat), conflict.EndTime.Format(domain.TimeFormat))
			return ErrOverlap
		case domain.AdmissionInsufficientGap:
			uc.logger.Warn("CreateBooking: room id=%d is within %s of booking id=%s (%s-%s)", req.RoomID,
				domain.MinGapBetweenBookings, conflict.ID,
				conflict.StartTime.Format(domain.TimeFormat), conflict.EndTime.Format(domain.TimeFormat))
			return ErrInsufficientGap
		}

		uc.logger.Info("CreateBooking: room id=%d admitted, %d active bookings on date", req.RoomID, len(existing))

		// 4.4. Создаём бронирование
		booking := &domain.Booking{
			ID:          uuid.NewString(),
			RoomID:      room.ID,
			RoomName:    room.Name,
			RequesterID: req.RequesterID,
			BookingDate: domain.DateOnly(req.Date),
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Status:      initialStatus,
		}

		created, err := uc.bookingRepo.Insert(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to insert booking: %v", err)
			return fmt.Errorf("%w: failed to insert booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err == nil || errors.Is(err, ErrRoomAlreadyBooked) {
		uc.metrics.ObserveAdmission(outcome.String())
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s, status=%s", result.ID, result.Status)

	// 5. Событие публикуется после коммита; ошибка публикации не отменяет бронирование
	event := events.NewBookingEvent(events.EventBookingCreated, result, req.RequesterID, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event for booking id=%s: %v", result.ID, err)
	}

	return &Response{
		ID:               result.ID,
		RoomID:           result.RoomID,
		RoomName:         result.RoomName,
		RequesterID:      result.RequesterID,
		BookingDate:      result.BookingDate,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		Status:           string(result.Status),
		RequiresApproval: room.RequiresApproval,
		CreatedAt:        result.CreatedAt,
	}, nil
}
