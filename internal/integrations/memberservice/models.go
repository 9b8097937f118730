package memberservice

// Статусы сотрудника в справочнике
const (
	StatusWorking  = 1
	StatusResigned = 2
	StatusRetired  = 3
)

// Member модель сотрудника из MemberService
type Member struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	Status       int    `json:"status"`
}

// IsActive сотрудник может бронировать комнаты, только пока работает
func (m *Member) IsActive() bool {
	return m.Status == StatusWorking
}

// ErrorResponse модель ошибки от MemberService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
