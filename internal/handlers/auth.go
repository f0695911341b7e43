package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/repositories"
	services "github.com/evn/scheduler_backendl/internal/services/auth"
)

type AuthHandler struct {
	users      repositories.UserRepository
	jwtService *services.JWTService
}

func NewAuthHandler(users repositories.UserRepository, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwtService: jwtService}
}

// LoginFormHandler отдаёт описание формы логина (GET-пара к POST /login/).
func (h *AuthHandler) LoginFormHandler(w http.ResponseWriter, r *http.Request) {
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"fields": []string{"username", "password"},
	})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var loginData models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginData); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), loginData.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Не раскрываем, существует ли пользователь
			response.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		} else {
			response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !services.CheckPasswordHash(loginData.Password, user.PasswordHash) {
		response.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, refreshToken, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username, user.IsStaff)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, models.AuthResponse{
		Token:        token,
		RefreshToken: refreshToken,
		IsStaff:      user.IsStaff,
		UserID:       user.ID,
		Username:     user.Username,
	})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.RefreshToken != "" {
		h.jwtService.RevokeRefreshToken(r.Context(), body.RefreshToken)
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if body.RefreshToken == "" {
		response.RespondWithError(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(r.Context(), body.RefreshToken)
	if err != nil {
		response.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "User not found")
		return
	}

	// Старый refresh-токен гасим, выдаём новую пару
	h.jwtService.RevokeRefreshToken(r.Context(), body.RefreshToken)

	token, refreshToken, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username, user.IsStaff)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Could not generate token")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]string{
		"token":         token,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var regData models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&regData); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	if regData.Username == "" || regData.Password == "" {
		response.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), regData.Username); err == nil {
		response.RespondWithError(w, http.StatusBadRequest, "Username already exists")
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	passwordHash, err := services.HashPassword(regData.Password)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.User{
		Username:     regData.Username,
		FirstName:    regData.FirstName,
		PasswordHash: passwordHash,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	response.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
	})
}
