package get_user_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings"
	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
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

func serve(svc BookingService, userID string, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/bookings"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"userId": userID})
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_PassesStatusFilter(t *testing.T) {
	svc := &mockService{}
	svc.On("GetUserBookings", mock.Anything, mock.MatchedBy(func(req *models.GetUserBookingsRequest) bool {
		return req.UserID == "emp-1" && req.Status != nil && *req.Status == "booked"
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "b-1"}}}, nil)

	rec := serve(svc, "emp-1", "?status=booked")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"b-1"`)
	svc.AssertExpectations(t)
}

func TestHandle_WithoutStatus(t *testing.T) {
	svc := &mockService{}
	svc.On("GetUserBookings", mock.Anything, mock.MatchedBy(func(req *models.GetUserBookingsRequest) bool {
		return req.Status == nil
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil)

	rec := serve(svc, "emp-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid status", fmt.Errorf("%w: invalid status", bookings.ErrInvalidInput), http.StatusBadRequest},
		{"internal", fmt.Errorf("%w: db", bookings.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetUserBookings", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(svc, "emp-1", "?status=weird")

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
