package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

type JWTService struct {
	secretKey []byte
	redis     *redis.Client
}

func NewJWTService(secretKey string, redisClient *redis.Client) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		redis:     redisClient,
	}
}

// GenerateToken выпускает access-токен и refresh-токен.
// Refresh хранится в redis и живёт до logout или истечения TTL.
func (s *JWTService) GenerateToken(ctx context.Context, userID int, username string, isStaff bool) (string, string, error) {
	claims := jwt.MapClaims{
		"user_id":  strconv.Itoa(userID),
		"username": username,
		"is_staff": isStaff,
		"exp":      time.Now().Add(accessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %v", err)
	}

	refreshToken, err := s.newRefreshToken(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// ValidateRefreshToken возвращает id пользователя, которому выдан refresh-токен.
func (s *JWTService) ValidateRefreshToken(ctx context.Context, token string) (int, error) {
	val, err := s.redis.Get(ctx, refreshKey(token)).Result()
	if err != nil {
		return 0, fmt.Errorf("refresh token not found or expired")
	}
	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token record")
	}
	return userID, nil
}

// RevokeRefreshToken удаляет refresh-токен (logout).
func (s *JWTService) RevokeRefreshToken(ctx context.Context, token string) error {
	return s.redis.Del(ctx, refreshKey(token)).Err()
}

func (s *JWTService) newRefreshToken(ctx context.Context, userID int) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %v", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.redis.Set(ctx, refreshKey(token), strconv.Itoa(userID), refreshTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %v", err)
	}
	return token, nil
}

func refreshKey(token string) string {
	return "auth:refresh:" + token
}
