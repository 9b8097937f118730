package check_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) FindActiveBookings(ctx context.Context, roomID int64, date time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, roomID, date)
	if bookings, ok := args.Get(0).([]*domain.Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRoomRepo struct{ mock.Mock }

func (m *mockRoomRepo) RoomExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newUseCase(bookings *mockBookingRepo, rooms *mockRoomRepo, now time.Time) *UseCase {
	uc := NewUseCase(bookings, rooms, nopLogger{})
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestExecute_BusyAndWindows(t *testing.T) {
	bookings := &mockBookingRepo{}
	rooms := &mockRoomRepo{}
	rooms.On("RoomExists", mock.Anything, int64(1)).Return(true, nil)
	bookings.On("FindActiveBookings", mock.Anything, int64(1), day).Return([]*domain.Booking{
		booking("late", 15, 16, domain.StatusPendingApproval),
		booking("early", 10, 11, domain.StatusBooked),
	}, nil)

	uc := newUseCase(bookings, rooms, day.Add(-time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: at(13, 45)})
	require.NoError(t, err)

	assert.Equal(t, day, resp.Date)
	require.Len(t, resp.Busy, 2)
	assert.Equal(t, "early", resp.Busy[0].BookingID)
	assert.Equal(t, "pending_approval", resp.Busy[1].Status)
	assert.Len(t, resp.FreeWindows, 3)
	assert.Nil(t, resp.Candidate)
}

func TestExecute_Candidate(t *testing.T) {
	tests := []struct {
		name         string
		start, end   time.Time
		wantOK       bool
		wantReason   string
		wantConflict string
	}{
		{"free", at(13, 0), at(14, 0), true, "", ""},
		{"overlap", at(10, 30), at(11, 30), false, ReasonOverlap, "a"},
		{"too close", at(11, 30), at(12, 0), false, ReasonInsufficientGap, "a"},
		{"in past", at(7, 0), at(8, 0), false, ReasonInPast, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &mockBookingRepo{}
			rooms := &mockRoomRepo{}
			rooms.On("RoomExists", mock.Anything, int64(1)).Return(true, nil)
			bookings.On("FindActiveBookings", mock.Anything, int64(1), day).
				Return([]*domain.Booking{booking("a", 10, 11, domain.StatusBooked)}, nil)

			uc := newUseCase(bookings, rooms, at(8, 30))

			resp, err := uc.Execute(context.Background(), &Request{
				RoomID: 1, Date: day, StartTime: ptrTime(tt.start), EndTime: ptrTime(tt.end),
			})
			require.NoError(t, err)
			require.NotNil(t, resp.Candidate)

			assert.Equal(t, tt.wantOK, resp.Candidate.Available)
			assert.Equal(t, tt.wantReason, resp.Candidate.Reason)
			if tt.wantConflict == "" {
				assert.Nil(t, resp.Candidate.ConflictingBookingID)
			} else {
				require.NotNil(t, resp.Candidate.ConflictingBookingID)
				assert.Equal(t, tt.wantConflict, *resp.Candidate.ConflictingBookingID)
			}
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	t.Run("room not found", func(t *testing.T) {
		rooms := &mockRoomRepo{}
		rooms.On("RoomExists", mock.Anything, int64(7)).Return(false, nil)
		bookings := &mockBookingRepo{}

		_, err := newUseCase(bookings, rooms, day).Execute(context.Background(), &Request{RoomID: 7, Date: day})

		assert.ErrorIs(t, err, ErrRoomNotFound)
		bookings.AssertNotCalled(t, "FindActiveBookings", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		rooms := &mockRoomRepo{}
		rooms.On("RoomExists", mock.Anything, int64(1)).Return(true, nil)
		bookings := &mockBookingRepo{}
		bookings.On("FindActiveBookings", mock.Anything, int64(1), day).Return(nil, errors.New("db down"))

		_, err := newUseCase(bookings, rooms, day).Execute(context.Background(), &Request{RoomID: 1, Date: day})

		assert.ErrorIs(t, err, ErrInternal)
	})

	validation := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"zero room", &Request{Date: day}, ErrInvalidInput},
		{"no date", &Request{RoomID: 1}, ErrInvalidInput},
		{"only start", &Request{RoomID: 1, Date: day, StartTime: ptrTime(at(10, 0))}, ErrInvalidInput},
		{"reversed", &Request{RoomID: 1, Date: day, StartTime: ptrTime(at(11, 0)), EndTime: ptrTime(at(10, 0))}, ErrInvalidTimeRange},
		{"other date", &Request{RoomID: 1, Date: day, StartTime: ptrTime(at(10, 0)), EndTime: ptrTime(at(25, 0))}, ErrInvalidTimeRange},
	}
	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			rooms := &mockRoomRepo{}
			_, err := newUseCase(&mockBookingRepo{}, rooms, day).Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			rooms.AssertNotCalled(t, "RoomExists", mock.Anything, mock.Anything)
		})
	}
}
