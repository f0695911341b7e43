package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/evn/scheduler_backendl/config"
	"github.com/go-chi/jwtauth/v5"
)

// AddUserIDToContext добавляет user_id из JWT в контекст запроса.
func AddUserIDToContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				next.ServeHTTP(w, r)
				return
			}
			claims := token.PrivateClaims()
			var userID int
			if rawID, ok := claims["user_id"]; ok {
				switch v := rawID.(type) {
				case float64:
					userID = int(v)
				case int:
					userID = v
				case string:
					if id, err := strconv.Atoi(v); err == nil {
						userID = id
					}
				}
			}
			if userID != 0 {
				ctx := context.WithValue(r.Context(), config.UserIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext возвращает user_id из контекста.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	if id, ok := ctx.Value(config.UserIDKey).(int); ok {
		return id, true
	}
	return 0, false
}
