// Package web provides the JSON API server for the visit tracker.
package web

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yatrik/yatra/internal/auth"
	"github.com/yatrik/yatra/internal/email"
	"github.com/yatrik/yatra/internal/logging"
	"github.com/yatrik/yatra/internal/visit"
)

// Server is the visit API HTTP server.
type Server struct {
	visits  *visit.Repository
	users   *auth.UserStore
	otps    *auth.OTPStore
	refresh *auth.RefreshStore
	mailer  *email.Mailer
	cfg     auth.Config
	mux     *http.ServeMux
}

// NewServer creates an API server backed by the given database.
func NewServer(db *sql.DB, cfg auth.Config) *Server {
	s := &Server{
		visits:  visit.NewRepository(db),
		users:   auth.NewUserStore(db),
		otps:    auth.NewOTPStore(db),
		refresh: auth.NewRefreshStore(db),
		mailer: email.NewMailer(email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		}, cfg.DevMode),
		cfg: cfg,
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/auth/", s.handleAuthRoute)
	s.mux.HandleFunc("/api/v1/visits", s.handleVisits)
	s.mux.HandleFunc("/api/v1/visits/", s.handleVisitByID)

	return s
}

// Handler returns the full middleware chain: request logging, then
// bearer auth, then the routes.
func (s *Server) Handler() http.Handler {
	return logging.RequestLogger(auth.RequireAuth(s.cfg.JWTSecret, s.users, s.mux))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting visit API on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleAuthRoute dispatches /api/v1/auth/* requests. All auth
// endpoints are POST.
func (s *Server) handleAuthRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch strings.TrimPrefix(r.URL.Path, "/api/v1/auth/") {
	case "register":
		s.handleRegister(w, r)
	case "verify-otp":
		s.handleVerifyOTP(w, r)
	case "resend-otp":
		s.handleResendOTP(w, r)
	case "forgot-password":
		s.handleForgotPassword(w, r)
	case "login":
		s.handleLogin(w, r)
	case "refresh":
		s.handleRefresh(w, r)
	case "change-password":
		s.handleChangePassword(w, r)
	default:
		apiError(w, "not found", http.StatusNotFound)
	}
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}
