package get_room_availability

import (
	"errors"
	"net/url"
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	"github.com/m04kA/SMC-MeetingRoomService/internal/usecase/check_availability"
)

var (
	errMissingDate = errors.New("date is required")
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	RoomID      int64          `json:"roomId"`
	Date        string         `json:"date"`
	Busy        []BusyInterval `json:"busy"`
	FreeWindows []Window       `json:"freeWindows"`
	Candidate   *Candidate     `json:"candidate,omitempty"`
}

type BusyInterval struct {
	BookingID string `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

type Window struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Candidate struct {
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	Available            bool    `json:"available"`
	Reason               string  `json:"reason,omitempty"`
	ConflictingBookingID *string `json:"conflictingBookingId,omitempty"`
}

// parseQuery разбирает параметры ?date=2025-10-15&startTime=10:00&endTime=11:00
func parseQuery(roomID int64, q url.Values) (*check_availability.Request, error) {
	rawDate := q.Get("date")
	if rawDate == "" {
		return nil, errMissingDate
	}
	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &check_availability.Request{
		RoomID: roomID,
		Date:   date,
	}

	if v := q.Get("startTime"); v != "" {
		clock, err := time.Parse(domain.TimeFormat, v)
		if err != nil {
			return nil, errInvalidTime
		}
		start := domain.AtTime(date, clock)
		req.StartTime = &start
	}
	if v := q.Get("endTime"); v != "" {
		clock, err := time.Parse(domain.TimeFormat, v)
		if err != nil {
			return nil, errInvalidTime
		}
		end := domain.AtTime(date, clock)
		req.EndTime = &end
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *check_availability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		RoomID:      resp.RoomID,
		Date:        resp.Date.Format(domain.DateFormat),
		Busy:        make([]BusyInterval, 0, len(resp.Busy)),
		FreeWindows: make([]Window, 0, len(resp.FreeWindows)),
	}

	for _, b := range resp.Busy {
		result.Busy = append(result.Busy, BusyInterval{
			BookingID: b.BookingID,
			StartTime: b.StartTime.Format(domain.TimeFormat),
			EndTime:   b.EndTime.Format(domain.TimeFormat),
			Status:    string(b.Status),
		})
	}

	for _, win := range resp.FreeWindows {
		result.FreeWindows = append(result.FreeWindows, Window{
			StartTime: win.StartTime.Format(domain.TimeFormat),
			EndTime:   win.EndTime.Format(domain.TimeFormat),
		})
	}

	if c := resp.Candidate; c != nil {
		result.Candidate = &Candidate{
			StartTime:            c.StartTime.Format(domain.TimeFormat),
			EndTime:              c.EndTime.Format(domain.TimeFormat),
			Available:            c.Available,
			Reason:               c.Reason,
			ConflictingBookingID: c.ConflictingBookingID,
		}
	}

	return result
}
