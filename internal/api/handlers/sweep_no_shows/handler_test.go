package sweep_no_shows

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) MarkNoShows(ctx context.Context) (*models.SweepResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*models.SweepResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("MarkNoShows", mock.Anything).
		Return(&models.SweepResponse{MarkedCount: 2, BookingIDs: []string{"b-1", "b-2"}}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/no-show-sweep", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"markedCount":2,"bookingIds":["b-1","b-2"]}`, rec.Body.String())
}

func TestHandle_Error(t *testing.T) {
	svc := &mockService{}
	svc.On("MarkNoShows", mock.Anything).Return(nil, errors.New("db down"))

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/no-show-sweep", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
