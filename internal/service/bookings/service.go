package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-MeetingRoomService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя, от новых к старым.
// Без фильтра по статусу возвращаются и неактивные бронирования.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	filter := domain.BookingsFilter{
		RequesterID:     &req.UserID,
		IncludeInactive: true,
	}
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBookings получает бронирования с фильтрацией по комнате, дате и статусу.
// Расписание одной комнаты на дату возвращается по времени начала.
//
// Примеры использования:
// - Активные бронирования комнаты на дату: RoomID и Date
// - Все бронирования на дату, включая отменённые: Date и IncludeInactive = true
// - Только ожидающие подтверждения: Status = "pending_approval"
func (s *Service) GetBookings(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := "GetBookings: fetching bookings"
	if req.RoomID != nil {
		logMsg += fmt.Sprintf(", room=%d", *req.RoomID)
	}
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование с обязательной причиной.
// Отменить может только автор, и только активное бронирование.
func (s *Service) Cancel(ctx context.Context, bookingID string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, req.UserID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		s.logger.Warn("Cancel: empty reason for booking id=%s", bookingID)
		return nil, ErrReasonRequired
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: reason too long for booking id=%s", bookingID)
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.transition(ctx, "Cancel", bookingID, func(b *domain.Booking) error {
		if b.RequesterID != req.UserID {
			return ErrAccessDenied
		}
		if !b.CanBeCancelled() {
			return ErrCannotCancel
		}
		return nil
	}, func(txCtx context.Context) error {
		return s.bookingRepo.Cancel(txCtx, bookingID, reason)
	}, ErrCannotCancel)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, "Cancel", events.EventBookingCancelled, booking, req.UserID)
	return models.FromDomainBooking(booking), nil
}

// CheckIn подтверждает использование комнаты автором бронирования до окончания встречи
func (s *Service) CheckIn(ctx context.Context, bookingID string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("CheckIn: checking in booking id=%s by user=%s", bookingID, userID)

	booking, err := s.transition(ctx, "CheckIn", bookingID, func(b *domain.Booking) error {
		if b.RequesterID != userID {
			return ErrAccessDenied
		}
		if !b.CanCheckIn() {
			return ErrCannotCheckIn
		}
		if !s.timeProvider.Now().Before(b.EndTime) {
			return ErrCheckInWindowClosed
		}
		return nil
	}, func(txCtx context.Context) error {
		return s.bookingRepo.TransitionStatus(txCtx, bookingID,
			[]domain.BookingStatus{domain.StatusBooked}, domain.StatusCheckedIn)
	}, ErrCannotCheckIn)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, "CheckIn", events.EventBookingCheckedIn, booking, userID)
	return models.FromDomainBooking(booking), nil
}

// Approve подтверждает бронирование комнаты, требующей согласования.
// Автор не может подтвердить собственное бронирование.
func (s *Service) Approve(ctx context.Context, bookingID string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("Approve: approving booking id=%s by user=%s", bookingID, userID)

	booking, err := s.transition(ctx, "Approve", bookingID, func(b *domain.Booking) error {
		if b.RequesterID == userID {
			return ErrAccessDenied
		}
		if !b.CanBeApproved() {
			return ErrCannotApprove
		}
		return nil
	}, func(txCtx context.Context) error {
		return s.bookingRepo.TransitionStatus(txCtx, bookingID,
			[]domain.BookingStatus{domain.StatusPendingApproval}, domain.StatusBooked)
	}, ErrCannotApprove)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, "Approve", events.EventBookingApproved, booking, userID)
	return models.FromDomainBooking(booking), nil
}

// MarkNoShows переводит в no_show все забронированные встречи, которые уже закончились
// без подтверждения использования
func (s *Service) MarkNoShows(ctx context.Context) (*models.SweepResponse, error) {
	now := s.timeProvider.Now()
	s.logger.Info("MarkNoShows: sweeping bookings ended before %s", now.Format("2006-01-02 15:04"))

	marked, err := s.bookingRepo.MarkNoShows(ctx, now)
	if err != nil {
		s.logger.Error("MarkNoShows: repository error: %v", err)
		return nil, fmt.Errorf("%w: MarkNoShows - repository error: %w", ErrInternal, err)
	}

	resp := &models.SweepResponse{
		MarkedCount: len(marked),
		BookingIDs:  make([]string, 0, len(marked)),
	}
	for _, b := range marked {
		resp.BookingIDs = append(resp.BookingIDs, b.ID)
		s.afterTransition(ctx, "MarkNoShows", events.EventBookingNoShow, b, "")
	}

	s.logger.Info("MarkNoShows: marked %d bookings as no_show", len(marked))
	return resp, nil
}

// Вспомогательные методы

// getBooking загружает бронирование и переводит ошибки репозитория в ошибки сервиса
func (s *Service) getBooking(ctx context.Context, op string, id string) (*domain.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}

	return booking, nil
}

// transition проверяет бронирование и меняет его статус в одной транзакции.
// UPDATE в репозитории ограничен ожидаемыми статусами, поэтому конкурентный переход
// не перезаписывается: в этом случае возвращается lostRace.
// Возвращает состояние бронирования после изменения.
func (s *Service) transition(
	ctx context.Context,
	op string,
	id string,
	check func(b *domain.Booking) error,
	apply func(txCtx context.Context) error,
	lostRace error,
) (*domain.Booking, error) {
	var updated *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, op, id)
		if err != nil {
			return err
		}

		if err := check(booking); err != nil {
			s.logger.Warn("%s: booking id=%s rejected (status=%s): %v", op, id, booking.Status, err)
			return err
		}

		if err := apply(txCtx); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				s.logger.Warn("%s: booking id=%s not found during update", op, id)
				return ErrBookingNotFound
			case errors.Is(err, bookingRepo.ErrStatusTransition):
				s.logger.Warn("%s: booking id=%s changed status concurrently", op, id)
				return lostRace
			default:
				s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
				return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
			}
		}

		updated, err = s.getBooking(txCtx, op, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// afterTransition учитывает переход в метриках и публикует событие.
// Ошибка публикации не отменяет уже закоммиченный переход.
func (s *Service) afterTransition(ctx context.Context, op string, eventType events.EventType, b *domain.Booking, actorID string) {
	s.metrics.ObserveTransition(string(b.Status))
	s.logger.Info("%s: booking id=%s is now %s", op, b.ID, b.Status)

	event := events.NewBookingEvent(eventType, b, actorID, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("%s: failed to publish %s for booking id=%s: %v", op, eventType, b.ID, err)
	}
}
