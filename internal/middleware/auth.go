package middleware

import (
	"net/http"

	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/repositories"
)

// StaffOnly пускает только администраторов (is_staff).
// Флаг читается из базы, а не из claims токена.
func StaffOnly(users repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil || !user.IsStaff {
				response.RespondWithError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
