package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-MeetingRoomService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if b, ok := args.Get(0).([]*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id string, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockBookingRepo) TransitionStatus(ctx context.Context, id string, from []domain.BookingStatus, to domain.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockBookingRepo) MarkNoShows(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, now)
	if b, ok := args.Get(0).([]*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type recordingMetrics struct {
	transitions []string
}

func (m *recordingMetrics) ObserveTransition(status string) {
	m.transitions = append(m.transitions, status)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

const bookingID = "6f1c1c1e-9d2a-4a53-8d8f-0a5e3b0b9c11"

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          bookingID,
		RoomID:      1,
		RoomName:    "Orion",
		RequesterID: "emp-1",
		BookingDate: day,
		StartTime:   day.Add(10 * time.Hour),
		EndTime:     day.Add(11 * time.Hour),
		Status:      status,
	}
}

func withStatus(b *domain.Booking, status domain.BookingStatus) *domain.Booking {
	cp := *b
	cp.Status = status
	return &cp
}

type fixture struct {
	svc       *Service
	repo      *mockBookingRepo
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		repo:      &mockBookingRepo{},
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
	}
	f.svc = NewService(f.repo, passthroughTx{}, f.publisher, f.metrics, nopLogger{})
	f.svc.timeProvider = fixedTime{t: now}
	return f
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusBooked), nil)

		resp, err := f.svc.GetByID(context.Background(), bookingID)
		require.NoError(t, err)

		assert.Equal(t, bookingID, resp.ID)
		assert.Equal(t, "2025-03-14", resp.BookingDate)
		assert.Equal(t, "10:00", resp.StartTime)
		assert.Equal(t, "11:00", resp.EndTime)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, "missing").Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := f.svc.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(nil, bookingRepo.ErrExecQuery)

		_, err := f.svc.GetByID(context.Background(), bookingID)
		assert.ErrorIs(t, err, ErrInternal)
		assert.ErrorIs(t, err, bookingRepo.ErrExecQuery)
	})
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture(day)
	status := "cancelled"
	f.repo.On("GetWithFilter", mock.Anything, mock.MatchedBy(func(filter domain.BookingsFilter) bool {
		return filter.RequesterID != nil && *filter.RequesterID == "emp-1" &&
			filter.IncludeInactive &&
			filter.Status != nil && *filter.Status == domain.StatusCancelled
	})).Return([]*domain.Booking{sampleBooking(domain.StatusCancelled)}, nil)

	resp, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: "emp-1", Status: &status})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	bad := "finished"
	_, err = f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: "emp-1", Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBookings(t *testing.T) {
	f := newFixture(day)
	roomID := int64(1)
	date := day.Add(15 * time.Hour)

	f.repo.On("GetWithFilter", mock.Anything, mock.MatchedBy(func(filter domain.BookingsFilter) bool {
		return filter.IsSingleRoomDay() && filter.Date.Equal(day) && !filter.IncludeInactive
	})).Return([]*domain.Booking{}, nil)

	resp, err := f.svc.GetBookings(context.Background(), &models.GetBookingsRequest{RoomID: &roomID, Date: &date})
	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
}

func TestCancel(t *testing.T) {
	t.Run("requester cancels", func(t *testing.T) {
		f := newFixture(day)
		cancelled := withStatus(sampleBooking(domain.StatusBooked), domain.StatusCancelled)
		reason := "перенесли встречу"
		cancelled.CancellationReason = &reason

		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusBooked), nil).Once()
		f.repo.On("Cancel", mock.Anything, bookingID, reason).Return(nil)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(cancelled, nil).Once()

		resp, err := f.svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{UserID: "emp-1", Reason: "  " + reason + " "})
		require.NoError(t, err)

		assert.Equal(t, "cancelled", resp.Status)
		require.NotNil(t, resp.CancellationReason)
		assert.Equal(t, reason, *resp.CancellationReason)
		assert.Equal(t, []string{"cancelled"}, f.metrics.transitions)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, events.EventBookingCancelled, f.publisher.events[0].Type)
		assert.Equal(t, "emp-1", f.publisher.events[0].ActorID)
	})

	tests := []struct {
		name    string
		booking *domain.Booking
		userID  string
		reason  string
		wantErr error
	}{
		{"empty reason", sampleBooking(domain.StatusBooked), "emp-1", "   ", ErrReasonRequired},
		{"reason too long", sampleBooking(domain.StatusBooked), "emp-1", strings.Repeat("я", 501), ErrInvalidInput},
		{"other member", sampleBooking(domain.StatusBooked), "emp-2", "причина", ErrAccessDenied},
		{"already cancelled", sampleBooking(domain.StatusCancelled), "emp-1", "причина", ErrCannotCancel},
		{"checked in", sampleBooking(domain.StatusCheckedIn), "emp-1", "причина", ErrCannotCancel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(day)
			f.repo.On("GetByID", mock.Anything, bookingID).Return(tt.booking, nil)

			_, err := f.svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{UserID: tt.userID, Reason: tt.reason})

			assert.ErrorIs(t, err, tt.wantErr)
			f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, f.publisher.events)
		})
	}

	t.Run("concurrent transition wins", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusBooked), nil)
		f.repo.On("Cancel", mock.Anything, bookingID, "причина").Return(bookingRepo.ErrStatusTransition)

		_, err := f.svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{UserID: "emp-1", Reason: "причина"})

		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Empty(t, f.metrics.transitions)
	})
}

func TestCheckIn(t *testing.T) {
	t.Run("during the meeting", func(t *testing.T) {
		f := newFixture(day.Add(10*time.Hour + 5*time.Minute))
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusBooked), nil).Once()
		f.repo.On("TransitionStatus", mock.Anything, bookingID,
			[]domain.BookingStatus{domain.StatusBooked}, domain.StatusCheckedIn).Return(nil)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusCheckedIn), nil).Once()

		resp, err := f.svc.CheckIn(context.Background(), bookingID, "emp-1")
		require.NoError(t, err)

		assert.Equal(t, "checked_in", resp.Status)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, events.EventBookingCheckedIn, f.publisher.events[0].Type)
	})

	tests := []struct {
		name    string
		now     time.Time
		booking *domain.Booking
		userID  string
		wantErr error
	}{
		{"other member", day.Add(10 * time.Hour), sampleBooking(domain.StatusBooked), "emp-2", ErrAccessDenied},
		{"pending approval", day.Add(10 * time.Hour), sampleBooking(domain.StatusPendingApproval), "emp-1", ErrCannotCheckIn},
		{"already checked in", day.Add(10 * time.Hour), sampleBooking(domain.StatusCheckedIn), "emp-1", ErrCannotCheckIn},
		{"meeting ended", day.Add(11 * time.Hour), sampleBooking(domain.StatusBooked), "emp-1", ErrCheckInWindowClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.now)
			f.repo.On("GetByID", mock.Anything, bookingID).Return(tt.booking, nil)

			_, err := f.svc.CheckIn(context.Background(), bookingID, tt.userID)

			assert.ErrorIs(t, err, tt.wantErr)
			f.repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestApprove(t *testing.T) {
	t.Run("another member approves", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusPendingApproval), nil).Once()
		f.repo.On("TransitionStatus", mock.Anything, bookingID,
			[]domain.BookingStatus{domain.StatusPendingApproval}, domain.StatusBooked).Return(nil)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusBooked), nil).Once()

		resp, err := f.svc.Approve(context.Background(), bookingID, "admin-7")
		require.NoError(t, err)

		assert.Equal(t, "booked", resp.Status)
		assert.Equal(t, []string{"booked"}, f.metrics.transitions)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, events.EventBookingApproved, f.publisher.events[0].Type)
		assert.Equal(t, "admin-7", f.publisher.events[0].ActorID)
	})

	t.Run("self approval", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusPendingApproval), nil)

		_, err := f.svc.Approve(context.Background(), bookingID, "emp-1")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not pending", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusBooked), nil)

		_, err := f.svc.Approve(context.Background(), bookingID, "admin-7")
		assert.ErrorIs(t, err, ErrCannotApprove)
	})

	t.Run("booking disappeared", func(t *testing.T) {
		f := newFixture(day)
		f.repo.On("GetByID", mock.Anything, bookingID).Return(sampleBooking(domain.StatusPendingApproval), nil)
		f.repo.On("TransitionStatus", mock.Anything, bookingID, mock.Anything, mock.Anything).
			Return(bookingRepo.ErrBookingNotFound)

		_, err := f.svc.Approve(context.Background(), bookingID, "admin-7")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestMarkNoShows(t *testing.T) {
	now := day.Add(12 * time.Hour)

	t.Run("marks and publishes", func(t *testing.T) {
		f := newFixture(now)
		first := sampleBooking(domain.StatusNoShow)
		second := withStatus(first, domain.StatusNoShow)
		second.ID = "2b3c4d5e-0000-4000-8000-000000000002"
		f.repo.On("MarkNoShows", mock.Anything, now).Return([]*domain.Booking{first, second}, nil)
		f.publisher.err = errors.New("kafka down")

		resp, err := f.svc.MarkNoShows(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, resp.MarkedCount)
		assert.Equal(t, []string{first.ID, second.ID}, resp.BookingIDs)
		assert.Equal(t, []string{"no_show", "no_show"}, f.metrics.transitions)
		assert.Len(t, f.publisher.events, 2)
	})

	t.Run("nothing to mark", func(t *testing.T) {
		f := newFixture(now)
		f.repo.On("MarkNoShows", mock.Anything, now).Return([]*domain.Booking{}, nil)

		resp, err := f.svc.MarkNoShows(context.Background())
		require.NoError(t, err)
		assert.Zero(t, resp.MarkedCount)
		assert.NotNil(t, resp.BookingIDs)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(now)
		f.repo.On("MarkNoShows", mock.Anything, now).Return(nil, bookingRepo.ErrExecQuery)

		_, err := f.svc.MarkNoShows(context.Background())
		assert.ErrorIs(t, err, ErrInternal)
	})
}
