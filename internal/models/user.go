package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name,omitempty"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Password  string `json:"password"`
}

type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	IsStaff      bool   `json:"is_staff"`
	UserID       int    `json:"user_id,omitempty"`
	Username     string `json:"username,omitempty"`
}
