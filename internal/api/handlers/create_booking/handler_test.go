package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingRoomService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-MeetingRoomService/internal/usecase/create_booking"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*createBooking.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"roomId":1,"bookingDate":"2025-03-14","startTime":"10:00","endTime":"11:30"}`

func serve(t *testing.T, uc CreateBookingUseCase, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.RoomID == 1 && req.RequesterID == "emp-1" &&
			req.StartTime.Equal(day.Add(10*time.Hour)) &&
			req.EndTime.Equal(day.Add(11*time.Hour+30*time.Minute))
	})).Return(&createBooking.Response{
		ID:          "0b7e4c1a-1111-4b2a-9c3d-000000000001",
		RoomID:      1,
		RoomName:    "Orion",
		RequesterID: "emp-1",
		BookingDate: day,
		StartTime:   day.Add(10 * time.Hour),
		EndTime:     day.Add(11*time.Hour + 30*time.Minute),
		Status:      "booked",
	}, nil)

	rec := serve(t, uc, "emp-1", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0b7e4c1a-1111-4b2a-9c3d-000000000001", resp.ID)
	assert.Equal(t, "2025-03-14", resp.BookingDate)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "11:30", resp.EndTime)
	assert.Equal(t, "booked", resp.Status)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"overlap", createBooking.ErrOverlap, http.StatusConflict, msgRoomAlreadyBooked},
		{"insufficient gap", createBooking.ErrInsufficientGap, http.StatusConflict, msgRoomAlreadyBooked},
		{"room not found", createBooking.ErrRoomNotFound, http.StatusNotFound, msgRoomNotFound},
		{"member not found", createBooking.ErrMemberNotFound, http.StatusNotFound, msgMemberNotFound},
		{"member inactive", createBooking.ErrMemberInactive, http.StatusForbidden, msgMemberInactive},
		{"member service down", fmt.Errorf("%w: timeout", createBooking.ErrMemberServiceUnavailable), http.StatusServiceUnavailable, ""},
		{"invalid range", createBooking.ErrInvalidTimeRange, http.StatusBadRequest, msgInvalidTimeRange},
		{"in past", createBooking.ErrBookingInPast, http.StatusBadRequest, msgBookingInPast},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(t, uc, "emp-1", validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"not json", `{`, msgInvalidRequestBody},
		{"missing room", `{"bookingDate":"2025-03-14","startTime":"10:00","endTime":"11:00"}`, msgInvalidRequestBody},
		{"missing end", `{"roomId":1,"bookingDate":"2025-03-14","startTime":"10:00"}`, msgInvalidRequestBody},
		{"bad date", `{"roomId":1,"bookingDate":"14.03.2025","startTime":"10:00","endTime":"11:00"}`, msgInvalidDate},
		{"bad time", `{"roomId":1,"bookingDate":"2025-03-14","startTime":"10am","endTime":"11:00"}`, msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			rec := serve(t, uc, "emp-1", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_MissingUser(t *testing.T) {
	uc := &mockUseCase{}

	rec := serve(t, uc, "", validBody)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
