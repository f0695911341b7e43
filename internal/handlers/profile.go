package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/repositories"
	"github.com/evn/scheduler_backendl/internal/services/timezone"
)

type ProfileHandler struct {
	users    repositories.UserRepository
	profiles repositories.TeamMemberRepository
}

func NewProfileHandler(users repositories.UserRepository, profiles repositories.TeamMemberRepository) *ProfileHandler {
	return &ProfileHandler{users: users, profiles: profiles}
}

// GetProfileSettingsHandler отдаёт профиль и список доступных поясов.
// Профиль создаётся лениво при первом заходе, с поясом UTC.
func (h *ProfileHandler) GetProfileSettingsHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := h.getOrCreateProfile(r)
	if err != nil {
		respondProfileError(w, err)
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"profile":   profile,
		"timezones": timezone.Names(),
	})
}

func (h *ProfileHandler) UpdateProfileSettingsHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := h.getOrCreateProfile(r)
	if err != nil {
		respondProfileError(w, err)
		return
	}

	var form struct {
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	if !timezone.IsValid(form.Timezone) {
		response.RespondWithError(w, http.StatusBadRequest, "Unknown timezone: "+form.Timezone)
		return
	}

	if err := h.profiles.UpdateTimezone(r.Context(), profile.UserID, form.Timezone); err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	profile.Timezone = form.Timezone

	response.RespondWithJSON(w, http.StatusOK, profile)
}

func respondProfileError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotAuthenticated) {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	response.RespondWithError(w, http.StatusInternalServerError, "Database error")
}

func (h *ProfileHandler) getOrCreateProfile(r *http.Request) (*models.TeamMember, error) {
	user, err := currentUser(r, h.users)
	if err != nil {
		return nil, err
	}

	profile, err := h.profiles.GetByUserID(r.Context(), user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return nil, err
	}

	profile = &models.TeamMember{UserID: user.ID, Timezone: "UTC"}
	if err := h.profiles.Create(r.Context(), profile); err != nil {
		return nil, err
	}
	return profile, nil
}
