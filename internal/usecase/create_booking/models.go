package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	RoomID      int64     // ID комнаты
	RequesterID string    // ID сотрудника (из X-User-ID)
	Date        time.Time // Дата бронирования (без времени)
	StartTime   time.Time // Начало интервала на дату Date
	EndTime     time.Time // Конец интервала на дату Date
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID               string
	RoomID           int64
	RoomName         string
	RequesterID      string
	BookingDate      time.Time
	StartTime        time.Time
	EndTime          time.Time
	Status           string
	RequiresApproval bool
	CreatedAt        time.Time
}
