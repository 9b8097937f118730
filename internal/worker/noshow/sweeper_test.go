package noshow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings/models"
)

type countingService struct {
	calls atomic.Int32
	err   error
}

func (s *countingService) MarkNoShows(context.Context) (*models.SweepResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &models.SweepResponse{MarkedCount: 1, BookingIDs: []string{"b-1"}}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func runFor(t *testing.T, svc BookingsService, interval, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	done := make(chan struct{})
	go func() {
		NewSweeper(svc, interval, nopLogger{}).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d + time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

func TestSweeper_RunsImmediatelyAndPeriodically(t *testing.T) {
	svc := &countingService{}

	runFor(t, svc, 10*time.Millisecond, 100*time.Millisecond)

	assert.GreaterOrEqual(t, svc.calls.Load(), int32(3))
}

func TestSweeper_KeepsRunningAfterErrors(t *testing.T) {
	svc := &countingService{err: errors.New("db down")}

	runFor(t, svc, 10*time.Millisecond, 60*time.Millisecond)

	assert.GreaterOrEqual(t, svc.calls.Load(), int32(2))
}

func TestSweeper_StopsOnCancelledContext(t *testing.T) {
	svc := &countingService{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewSweeper(svc, time.Hour, nopLogger{}).Run(ctx)

	assert.Equal(t, int32(1), svc.calls.Load())
}
