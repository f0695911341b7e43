package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/evn/scheduler_backendl/internal/middleware"
	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/repositories"
	"github.com/evn/scheduler_backendl/internal/services/timezone"
)

var errNotAuthenticated = errors.New("not authenticated")

// currentUser загружает пользователя, чей id положил в контекст middleware.
func currentUser(r *http.Request, users repositories.UserRepository) (*models.User, error) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, errNotAuthenticated
	}
	return users.GetByID(r.Context(), userID)
}

// resolveTimezone возвращает часовой пояс пользователя из его профиля.
// Нет профиля или пояс нераспознан — молча берём UTC.
func resolveTimezone(r *http.Request, profiles repositories.TeamMemberRepository, userID int) *time.Location {
	profile, err := profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		return time.UTC
	}
	return timezone.Resolve(profile.Timezone)
}

// localizeShifts аннотирует смены временем в заданном поясе.
func localizeShifts(shifts []models.Shift, loc *time.Location) []models.LocalizedShift {
	localized := make([]models.LocalizedShift, 0, len(shifts))
	for _, s := range shifts {
		localized = append(localized, models.LocalizedShift{
			Shift:      s,
			StartLocal: s.StartTimeUTC.In(loc).Format(time.RFC3339),
			EndLocal:   s.EndTimeUTC.In(loc).Format(time.RFC3339),
		})
	}
	return localized
}
