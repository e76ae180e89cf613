package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

type contextKey string

const userKey contextKey = "auth.user"

// UserFromContext returns the authenticated user stashed by RequireAuth.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey).(*User)
	return u
}

// rateLimiter tracks failed bearer token attempts per IP.
type rateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

var tokenLimiter = &rateLimiter{
	attempts: make(map[string][]time.Time),
}

const (
	rateLimitWindow  = 1 * time.Minute
	rateLimitMaxFail = 10
)

// recordFailure records a failed attempt and returns true if rate limited.
func (rl *rateLimiter) recordFailure(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	// Prune old entries
	valid := rl.attempts[ip][:0]
	for _, t := range rl.attempts[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	valid = append(valid, now)
	rl.attempts[ip] = valid

	return len(valid) > rateLimitMaxFail
}

// RequireAuth is middleware that validates the bearer access token on
// protected routes and resolves the current user into the request
// context. Auth endpoints and the health check pass through untouched.
// Returns 401 for missing/invalid tokens, 429 for rate-limited IPs.
func RequireAuth(secret string, users *UserStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ip := r.RemoteAddr

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			failAuth(w, ip, "authorization required")
			return
		}
		raw := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := ParseAccessToken(secret, raw)
		if err != nil {
			failAuth(w, ip, "invalid or expired token")
			return
		}

		u, err := users.GetByID(claims.Subject)
		if err != nil {
			failAuth(w, ip, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// failAuth rejects the request, answering 429 once the IP has burned
// through its failed-attempt budget and 401 otherwise.
func failAuth(w http.ResponseWriter, ip, msg string) {
	code := http.StatusUnauthorized
	if tokenLimiter.recordFailure(ip) {
		code = http.StatusTooManyRequests
		msg = "too many requests"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
	}
}

func isPublicPath(path string) bool {
	if path == "/health" {
		return true
	}
	return strings.HasPrefix(path, "/api/v1/auth/")
}
