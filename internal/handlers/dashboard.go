package handlers

import (
	"net/http"
	"time"

	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/pkg/schedule"
	"github.com/evn/scheduler_backendl/internal/repositories"
)

const upcomingShiftsLimit = 5

// DashboardHandler собирает сводку для главной страницы.
// Админ и обычный пользователь получают разные наборы полей.
func DashboardHandler(users repositories.UserRepository, shifts repositories.ShiftRepository, pto repositories.PTORepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, users)
		if err != nil {
			response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		nowUTC := time.Now().UTC()

		// Текущие смены видны всем, без фильтра по зрителю
		currentShifts, err := shifts.ListCurrent(r.Context(), nowUTC)
		if err != nil {
			response.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if currentShifts == nil {
			currentShifts = []models.Shift{}
		}

		if user.IsStaff {
			pendingCount, err := pto.CountByStatus(r.Context(), models.PTOStatusPending)
			if err != nil {
				response.RespondWithError(w, http.StatusInternalServerError, "Database error")
				return
			}

			weekStart, weekEnd := schedule.WeekWindow(nowUTC)
			weekShifts, err := shifts.ListStartingBetween(r.Context(), weekStart, weekEnd)
			if err != nil {
				response.RespondWithError(w, http.StatusInternalServerError, "Database error")
				return
			}
			if weekShifts == nil {
				weekShifts = []models.Shift{}
			}

			response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"current_shifts":    currentShifts,
				"pending_pto_count": pendingCount,
				"all_shifts":        weekShifts,
				"week_start":        weekStart,
				"week_end":          weekEnd,
				"now_utc":           nowUTC,
			})
			return
		}

		userShifts, err := shifts.ListUpcomingForMember(r.Context(), user.ID, nowUTC, upcomingShiftsLimit)
		if err != nil {
			response.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if userShifts == nil {
			userShifts = []models.Shift{}
		}

		response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"current_shifts": currentShifts,
			"user_shifts":    userShifts,
			"now_utc":        nowUTC,
		})
	}
}
