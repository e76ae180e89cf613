package auth

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	otpExpiry = 10 * time.Minute
	otpDigits = 6
)

// OTPStore manages one-time verification codes in SQLite. Codes are
// single-use: Validate marks them consumed.
type OTPStore struct {
	db *sql.DB
}

// NewOTPStore creates an OTP store.
func NewOTPStore(db *sql.DB) *OTPStore {
	return &OTPStore{db: db}
}

// Create generates a new six-digit code for the email. Any earlier
// unused codes for the same address are invalidated.
func (s *OTPStore) Create(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}

	if _, err := s.db.Exec(
		"UPDATE otp_codes SET used = 1 WHERE email = ? AND used = 0",
		email,
	); err != nil {
		return "", fmt.Errorf("invalidating old codes: %w", err)
	}

	expiresAt := time.Now().Add(otpExpiry)
	if _, err := s.db.Exec(
		"INSERT INTO otp_codes (email, code, expires_at) VALUES (?, ?, ?)",
		email, code, expiresAt,
	); err != nil {
		return "", fmt.Errorf("storing code: %w", err)
	}

	return code, nil
}

// Validate checks a code for the email. The code is marked as used and
// cannot be replayed.
func (s *OTPStore) Validate(email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	var id int64
	var used int
	var expiresAt time.Time

	err := s.db.QueryRow(
		"SELECT id, used, expires_at FROM otp_codes WHERE email = ? AND code = ? ORDER BY created_at DESC LIMIT 1",
		email, code,
	).Scan(&id, &used, &expiresAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("invalid code")
	}
	if err != nil {
		return fmt.Errorf("querying code: %w", err)
	}

	if used != 0 {
		return fmt.Errorf("code already used")
	}
	if time.Now().After(expiresAt) {
		return fmt.Errorf("code expired")
	}

	if _, err := s.db.Exec("UPDATE otp_codes SET used = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("marking code used: %w", err)
	}

	return nil
}

// Cleanup removes expired codes.
func (s *OTPStore) Cleanup() error {
	if _, err := s.db.Exec(
		"DELETE FROM otp_codes WHERE expires_at < ?",
		time.Now(),
	); err != nil {
		return fmt.Errorf("cleaning up codes: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
