package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned when no account matches the email or ID.
var ErrUserNotFound = errors.New("user not found")

// ErrBadCredentials is returned when the password check fails. Login
// surfaces the same message for unknown emails to avoid account probing.
var ErrBadCredentials = errors.New("invalid email or password")

// ErrNotVerified is returned when an unverified account tries to log in.
var ErrNotVerified = errors.New("account not verified")

// User represents a devotee account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStore manages accounts in SQLite. Passwords are stored as bcrypt
// hashes and never leave the store.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Register creates an unverified account with a hashed password.
func (s *UserStore) Register(name, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.db.Exec(
		"INSERT INTO users (id, email, name, password_hash) VALUES (?, ?, ?, ?)",
		id, email, name, string(hash),
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("account already exists for %s", email)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.GetByID(id)
}

// Authenticate checks the email/password pair and requires a verified
// account. Returns ErrBadCredentials or ErrNotVerified on failure.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	var hash string
	var verified int
	err := s.db.QueryRow(
		"SELECT id, email, name, password_hash, verified, created_at FROM users WHERE email = ?",
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &hash, &verified, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	if verified == 0 {
		return nil, ErrNotVerified
	}

	u.Verified = true
	return &u, nil
}

// GetByID returns a user by ID.
func (s *UserStore) GetByID(id string) (*User, error) {
	return s.getBy("id", id)
}

// GetByEmail returns a user by email.
func (s *UserStore) GetByEmail(email string) (*User, error) {
	return s.getBy("email", strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserStore) getBy(column, value string) (*User, error) {
	var u User
	var verified int
	err := s.db.QueryRow(
		"SELECT id, email, name, verified, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&u.ID, &u.Email, &u.Name, &verified, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.Verified = verified != 0
	return &u, nil
}

// MarkVerified flips the verified flag after a successful OTP check.
func (s *UserStore) MarkVerified(email string) error {
	result, err := s.db.Exec(
		"UPDATE users SET verified = 1 WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err != nil {
		return fmt.Errorf("marking verified: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetPassword replaces the stored hash. Callers must have proven the
// user's identity first (current password or a valid OTP).
func (s *UserStore) SetPassword(email, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	result, err := s.db.Exec(
		"UPDATE users SET password_hash = ? WHERE email = ?",
		string(hash), strings.ToLower(strings.TrimSpace(email)),
	)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CheckPassword verifies the current password without logging in.
func (s *UserStore) CheckPassword(email, password string) error {
	var hash string
	err := s.db.QueryRow(
		"SELECT password_hash FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBadCredentials
	}
	if err != nil {
		return fmt.Errorf("querying user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrBadCredentials
	}
	return nil
}
