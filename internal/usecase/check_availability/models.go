package check_availability

import "time"

// Причины, по которым интервал недоступен
const (
	ReasonOverlap         = "overlap"
	ReasonInsufficientGap = "insufficient_gap"
	ReasonInPast          = "in_past"
)

// Request модель запроса доступности комнаты на дату
type Request struct {
	RoomID    int64      // ID комнаты
	Date      time.Time  // Дата (без времени)
	StartTime *time.Time // Начало проверяемого интервала (опционально)
	EndTime   *time.Time // Конец проверяемого интервала (опционально)
}

// Response модель ответа с занятостью комнаты
type Response struct {
	RoomID      int64
	Date        time.Time
	Busy        []BusyInterval // Активные бронирования на дату, по времени начала
	FreeWindows []Window       // Окна, в которых любой интервал будет принят
	Candidate   *Candidate     // Результат проверки интервала, если он передан
}

// BusyInterval занятый интервал комнаты
type BusyInterval struct {
	BookingID string
	StartTime time.Time
	EndTime   time.Time
	Status    string
}

// Window свободное окно с учетом минимального промежутка
type Window struct {
	StartTime time.Time
	EndTime   time.Time
}

// Candidate результат проверки интервала
type Candidate struct {
	StartTime            time.Time
	EndTime              time.Time
	Available            bool
	Reason               string  // Пусто, если интервал доступен
	ConflictingBookingID *string // Бронирование, из-за которого интервал недоступен
}
