package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/pkg/schedule"
	"github.com/evn/scheduler_backendl/internal/repositories"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler struct {
	users    repositories.UserRepository
	shifts   repositories.ShiftRepository
	profiles repositories.TeamMemberRepository
}

func NewScheduleHandler(users repositories.UserRepository, shifts repositories.ShiftRepository, profiles repositories.TeamMemberRepository) *ScheduleHandler {
	return &ScheduleHandler{users: users, shifts: shifts, profiles: profiles}
}

// MyScheduleHandler — смены запрашивающего за текущий календарный месяц,
// в его часовом поясе.
func (h *ScheduleHandler) MyScheduleHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	loc := resolveTimezone(r, h.profiles, user.ID)

	monthStart, monthEnd := schedule.MonthWindow(time.Now().UTC())
	shifts, err := h.shifts.ListForMemberBetween(r.Context(), user.ID, monthStart, monthEnd)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"shifts":        localizeShifts(shifts, loc),
		"user_timezone": loc.String(),
	})
}

// AllMembersHandler — список членов команды (не админов) по алфавиту.
func (h *ScheduleHandler) AllMembersHandler(w http.ResponseWriter, r *http.Request) {
	members, err := h.users.ListMembers(r.Context())
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if members == nil {
		members = []models.User{}
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"members": members,
	})
}

// MemberScheduleHandler — смены произвольного пользователя за текущую
// неделю, в часовом поясе этого пользователя.
func (h *ScheduleHandler) MemberScheduleHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	member, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			response.RespondWithError(w, http.StatusNotFound, "User not found")
		} else {
			response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	loc := resolveTimezone(r, h.profiles, member.ID)

	weekStart, weekEnd := schedule.WeekWindow(time.Now().UTC())
	shifts, err := h.shifts.ListForMemberBetween(r.Context(), member.ID, weekStart, weekEnd)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"member":          member,
		"shifts":          localizeShifts(shifts, loc),
		"member_timezone": loc.String(),
	})
}
