package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
)

// HeaderUserID заголовок с ID сотрудника, выставляемый шлюзом
const HeaderUserID = "X-User-ID"

const msgMissingUserID = "отсутствует заголовок X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// Auth кладёт ID сотрудника из заголовка X-User-ID в контекст запроса.
// Запросы без заголовка отклоняются с 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID возвращает контекст с ID сотрудника
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID достаёт ID сотрудника, положенный Auth
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
