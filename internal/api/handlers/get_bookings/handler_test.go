package get_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) GetBookings(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*models.BookingListResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestParseQuery(t *testing.T) {
	req, err := parseQuery(url.Values{
		"roomId":          {"7"},
		"date":            {"2025-03-14"},
		"status":          {"pending_approval"},
		"includeInactive": {"true"},
	})
	require.NoError(t, err)
	require.NotNil(t, req.RoomID)
	assert.Equal(t, int64(7), *req.RoomID)
	require.NotNil(t, req.Date)
	assert.True(t, req.Date.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, req.Status)
	assert.Equal(t, "pending_approval", *req.Status)
	assert.True(t, req.IncludeInactive)

	empty, err := parseQuery(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, empty.RoomID)
	assert.Nil(t, empty.Date)
	assert.False(t, empty.IncludeInactive)

	for _, bad := range []url.Values{
		{"roomId": {"abc"}},
		{"roomId": {"0"}},
		{"date": {"14.03.2025"}},
		{"includeInactive": {"maybe"}},
	} {
		_, err := parseQuery(bad)
		assert.Error(t, err, bad.Encode())
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name  string
		query string
		resp  *models.BookingListResponse
		err   error
		code  int
	}{
		{"ok", "?roomId=1&date=2025-03-14", &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil, http.StatusOK},
		{"bad status", "?status=unknown", nil, fmt.Errorf("%w: invalid filter", bookings.ErrInvalidInput), http.StatusBadRequest},
		{"internal", "", nil, fmt.Errorf("%w: db", bookings.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetBookings", mock.Anything, mock.Anything).Return(tt.resp, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+tt.query, nil)
			rec := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(rec, req)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHandle_InvalidQuery(t *testing.T) {
	svc := &mockService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?date=yesterday", nil)
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetBookings", mock.Anything, mock.Anything)
}
