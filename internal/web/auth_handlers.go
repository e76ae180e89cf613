package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yatrik/yatra/internal/auth"
)

// tokenResponse is the body returned by login and refresh.
type tokenResponse struct {
	User         *auth.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

// handleRegister creates an unverified account and sends a verification
// code to the email.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	u, err := s.users.Register(req.Name, req.Email, req.Password)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.sendOTP(u.Email); err != nil {
		apiError(w, fmt.Sprintf("sending verification code: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{
		"user":    u,
		"message": "Verification code sent. Please verify your email.",
	}, http.StatusCreated)
}

// handleVerifyOTP checks a one-time code and marks the account verified.
func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := s.otps.Validate(req.Email, req.OTP); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.users.MarkVerified(req.Email); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]string{"message": "Account verified. You can now log in."}, http.StatusOK)
}

// handleResendOTP issues a fresh code for an existing account.
func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	s.reissueOTP(w, r, "Verification code sent.")
}

// handleForgotPassword issues a code used to authorize a password reset.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	s.reissueOTP(w, r, "Password reset code sent.")
}

func (s *Server) reissueOTP(w http.ResponseWriter, r *http.Request, message string) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	// Don't leak which emails have accounts: report success either way.
	if _, err := s.users.GetByEmail(req.Email); err != nil {
		apiJSON(w, map[string]string{"message": message}, http.StatusOK)
		return
	}

	if err := s.sendOTP(req.Email); err != nil {
		apiError(w, fmt.Sprintf("sending code: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"message": message}, http.StatusOK)
}

// handleLogin authenticates a verified account and issues tokens.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	u, err := s.users.Authenticate(req.Email, req.Password)
	if errors.Is(err, auth.ErrNotVerified) {
		apiError(w, "account not verified. Check your email for the code", http.StatusForbidden)
		return
	}
	if err != nil {
		apiError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	s.issueTokens(w, u)
}

// handleRefresh rotates a refresh token and returns a fresh pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	userID, next, err := s.refresh.Rotate(req.RefreshToken)
	if err != nil {
		apiError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	u, err := s.users.GetByID(userID)
	if err != nil {
		apiError(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	access, err := auth.IssueAccessToken(s.cfg.JWTSecret, u)
	if err != nil {
		apiError(w, fmt.Sprintf("issuing token: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, tokenResponse{User: u, AccessToken: access, RefreshToken: next}, http.StatusOK)
}

// handleChangePassword sets a new password. The caller proves identity
// with either the current password or a one-time code from the
// forgot-password flow. All refresh tokens are revoked on success.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		CurrentPassword string `json:"currentPassword"`
		OTP             string `json:"otp"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	switch {
	case strings.TrimSpace(req.OTP) != "":
		if err := s.otps.Validate(req.Email, req.OTP); err != nil {
			apiError(w, err.Error(), http.StatusUnauthorized)
			return
		}
	case req.CurrentPassword != "":
		if err := s.users.CheckPassword(req.Email, req.CurrentPassword); err != nil {
			apiError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
	default:
		apiError(w, "current password or verification code required", http.StatusBadRequest)
		return
	}

	if err := s.users.SetPassword(req.Email, req.NewPassword); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if u, err := s.users.GetByEmail(req.Email); err == nil {
		if err := s.refresh.RevokeAll(u.ID); err != nil {
			apiError(w, fmt.Sprintf("revoking sessions: %v", err), http.StatusInternalServerError)
			return
		}
	}

	apiJSON(w, map[string]string{"message": "Password updated. Please log in again."}, http.StatusOK)
}

func (s *Server) issueTokens(w http.ResponseWriter, u *auth.User) {
	access, err := auth.IssueAccessToken(s.cfg.JWTSecret, u)
	if err != nil {
		apiError(w, fmt.Sprintf("issuing token: %v", err), http.StatusInternalServerError)
		return
	}

	refresh, err := s.refresh.Create(u.ID)
	if err != nil {
		apiError(w, fmt.Sprintf("issuing refresh token: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, tokenResponse{User: u, AccessToken: access, RefreshToken: refresh}, http.StatusOK)
}

func (s *Server) sendOTP(email string) error {
	code, err := s.otps.Create(email)
	if err != nil {
		return err
	}
	return s.mailer.SendOTP(email, code)
}
