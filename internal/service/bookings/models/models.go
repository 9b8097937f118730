package models

import (
	"time"

	"github.com/m04kA/SMC-MeetingRoomService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID string `json:"-"`
	Reason string `json:"reason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID string  `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetBookingsRequest запрос на получение бронирований с фильтрацией
type GetBookingsRequest struct {
	RoomID          *int64     `json:"roomId,omitempty"`          // Фильтр по комнате (опционально)
	Date            *time.Time `json:"date,omitempty"`            // Фильтр по дате (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		RoomID:          r.RoomID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Date != nil {
		date := domain.DateOnly(*r.Date)
		filter.Date = &date
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          string `json:"id"`
	RoomID      int64  `json:"roomId"`
	RoomName    string `json:"roomName"`
	RequesterID string `json:"requesterId"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:30"
	Status      string `json:"status"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601
	CheckedInAt        *string `json:"checkedInAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// SweepResponse результат перевода просроченных бронирований в no_show
type SweepResponse struct {
	MarkedCount int      `json:"markedCount"`
	BookingIDs  []string `json:"bookingIds"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		RoomID:             b.RoomID,
		RoomName:           b.RoomName,
		RequesterID:        b.RequesterID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.Format(domain.TimeFormat),
		EndTime:            b.EndTime.Format(domain.TimeFormat),
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CancelledAt:        formatTimestamp(b.CancelledAt),
		CheckedInAt:        formatTimestamp(b.CheckedInAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
