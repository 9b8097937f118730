package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		status      BookingStatus
		active      bool
		cancellable bool
		checkIn     bool
		approvable  bool
		terminal    bool
	}{
		{StatusBooked, true, true, true, false, false},
		{StatusPendingApproval, true, true, false, true, false},
		{StatusCheckedIn, false, false, false, false, false},
		{StatusNoShow, false, false, false, false, true},
		{StatusCancelled, false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.active, b.IsActive())
			assert.Equal(t, tt.cancellable, b.CanBeCancelled())
			assert.Equal(t, tt.checkIn, b.CanCheckIn())
			assert.Equal(t, tt.approvable, b.CanBeApproved())
			assert.Equal(t, tt.terminal, b.IsTerminal())
		})
	}
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("pending_approval")
	assert.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, s)

	_, err = ParseBookingStatus("confirmed")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestAtTime(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	clock, err := time.Parse(TimeFormat, "09:45")
	assert.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 14, 9, 45, 0, 0, time.UTC), AtTime(date, clock))
	assert.Equal(t, date, DateOnly(AtTime(date, clock)))
}
