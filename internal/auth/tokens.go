package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenExpiry  = 15 * time.Minute
	refreshTokenExpiry = 30 * 24 * time.Hour // 30 days
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived JWT for the user.
func IssueAccessToken(secret string, u *User) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates a signed JWT and returns its claims.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// RefreshStore manages opaque refresh tokens in SQLite. Tokens rotate:
// a successful Validate consumes the token and issues a new one.
type RefreshStore struct {
	db *sql.DB
}

// NewRefreshStore creates a refresh token store.
func NewRefreshStore(db *sql.DB) *RefreshStore {
	return &RefreshStore{db: db}
}

// Create issues a new refresh token for the user.
func (s *RefreshStore) Create(userID string) (string, error) {
	token := uuid.NewString()
	expiresAt := time.Now().Add(refreshTokenExpiry)

	if _, err := s.db.Exec(
		"INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expiresAt,
	); err != nil {
		return "", fmt.Errorf("storing refresh token: %w", err)
	}

	return token, nil
}

// Rotate consumes a refresh token and returns the owning user ID plus a
// replacement token. An expired or unknown token is an error.
func (s *RefreshStore) Rotate(token string) (userID, next string, err error) {
	var expiresAt time.Time

	err = s.db.QueryRow(
		"SELECT user_id, expires_at FROM refresh_tokens WHERE token = ?",
		token,
	).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("invalid refresh token")
	}
	if err != nil {
		return "", "", fmt.Errorf("querying refresh token: %w", err)
	}

	if _, err := s.db.Exec("DELETE FROM refresh_tokens WHERE token = ?", token); err != nil {
		return "", "", fmt.Errorf("consuming refresh token: %w", err)
	}

	if time.Now().After(expiresAt) {
		return "", "", fmt.Errorf("refresh token expired")
	}

	next, err = s.Create(userID)
	if err != nil {
		return "", "", err
	}
	return userID, next, nil
}

// RevokeAll removes every refresh token for the user (logout, password
// change).
func (s *RefreshStore) RevokeAll(userID string) error {
	if _, err := s.db.Exec("DELETE FROM refresh_tokens WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("revoking refresh tokens: %w", err)
	}
	return nil
}

// Cleanup removes expired refresh tokens.
func (s *RefreshStore) Cleanup() error {
	if _, err := s.db.Exec(
		"DELETE FROM refresh_tokens WHERE expires_at < ?",
		time.Now(),
	); err != nil {
		return fmt.Errorf("cleaning up refresh tokens: %w", err)
	}
	return nil
}
