package create_booking

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
	createBooking "github.com/m04kA/SMC-MeetingRoomService/internal/usecase/create_booking"
)

var (
	errInvalidDate = errors.New("invalid bookingDate")
	errInvalidTime = errors.New("invalid startTime or endTime")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	RoomID      int64  `json:"roomId" validate:"required,gt=0"`
	BookingDate string `json:"bookingDate" validate:"required"` // "2025-10-15"
	StartTime   string `json:"startTime" validate:"required"`   // "10:00"
	EndTime     string `json:"endTime" validate:"required"`     // "11:30"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               string `json:"id"`
	RoomID           int64  `json:"roomId"`
	RoomName         string `json:"roomName"`
	RequesterID      string `json:"requesterId"`
	BookingDate      string `json:"bookingDate"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	Status           string `json:"status"`
	RequiresApproval bool   `json:"requiresApproval"`
	CreatedAt        string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Дата и время трактуются как UTC.
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID string) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, errInvalidDate
	}

	start, err := time.Parse(domain.TimeFormat, r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	end, err := time.Parse(domain.TimeFormat, r.EndTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.Request{
		RoomID:      r.RoomID,
		RequesterID: requesterID,
		Date:        date,
		StartTime:   domain.AtTime(date, start),
		EndTime:     domain.AtTime(date, end),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:               resp.ID,
		RoomID:           resp.RoomID,
		RoomName:         resp.RoomName,
		RequesterID:      resp.RequesterID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.Format(domain.TimeFormat),
		EndTime:          resp.EndTime.Format(domain.TimeFormat),
		Status:           resp.Status,
		RequiresApproval: resp.RequiresApproval,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
}
