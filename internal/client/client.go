// Package client provides an HTTP client for the yatra REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yatrik/yatra/internal/auth"
	"github.com/yatrik/yatra/internal/visit"
)

// Client is an HTTP client for the yatra API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. The token is the bearer access token and
// may be empty for the auth endpoints.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// TokenResponse is the response from login and refresh.
type TokenResponse struct {
	User         *auth.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

// RegisterResponse is the response from register.
type RegisterResponse struct {
	User    *auth.User `json:"user"`
	Message string     `json:"message"`
}

// Register creates an account and triggers the verification code email.
func (c *Client) Register(name, email, password string) (*RegisterResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp RegisterResponse
	if err := c.post("/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyOTP confirms the emailed verification code and activates the account.
func (c *Client) VerifyOTP(email, code string) error {
	body := map[string]string{"email": email, "otp": code}
	return c.post("/api/v1/auth/verify-otp", body, nil)
}

// ResendOTP requests a fresh verification code.
func (c *Client) ResendOTP(email string) error {
	body := map[string]string{"email": email}
	return c.post("/api/v1/auth/resend-otp", body, nil)
}

// ForgotPassword requests a password reset code.
func (c *Client) ForgotPassword(email string) error {
	body := map[string]string{"email": email}
	return c.post("/api/v1/auth/forgot-password", body, nil)
}

// Login exchanges credentials for an access and refresh token pair.
func (c *Client) Login(email, password string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp TokenResponse
	if err := c.post("/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh rotates the refresh token and returns a new token pair.
func (c *Client) Refresh(refreshToken string) (*TokenResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var resp TokenResponse
	if err := c.post("/api/v1/auth/refresh", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword sets a new password. Proof is either the current password
// or a reset code from ForgotPassword; exactly one should be supplied.
func (c *Client) ChangePassword(email, currentPassword, otp, newPassword string) error {
	body := map[string]string{
		"email":           email,
		"currentPassword": currentPassword,
		"otp":             otp,
		"newPassword":     newPassword,
	}
	return c.post("/api/v1/auth/change-password", body, nil)
}

// CreateVisit records a new visit for the authenticated devotee.
func (c *Client) CreateVisit(p visit.Payload) (*visit.Visit, error) {
	var v visit.Visit
	if err := c.post("/api/v1/visits", p, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVisits returns all visits for the authenticated devotee, newest first.
func (c *Client) ListVisits() ([]*visit.Visit, error) {
	var resp struct {
		Visits []*visit.Visit `json:"visits"`
	}
	if err := c.get("/api/v1/visits", &resp); err != nil {
		return nil, err
	}
	return resp.Visits, nil
}

// GetVisit returns a single visit by id.
func (c *Client) GetVisit(id string) (*visit.Visit, error) {
	var v visit.Visit
	if err := c.get("/api/v1/visits/"+id, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVisit replaces a visit with the given payload.
func (c *Client) UpdateVisit(id string, p visit.Payload) (*visit.Visit, error) {
	var v visit.Visit
	if err := c.put("/api/v1/visits/"+id, p, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVisit removes a visit.
func (c *Client) DeleteVisit(id string) error {
	return c.doDelete("/api/v1/visits/" + id)
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	req, err := c.jsonRequest("POST", path, body)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

// put performs a PUT request with a JSON body and decodes the response.
func (c *Client) put(path string, body interface{}, result interface{}) error {
	req, err := c.jsonRequest("PUT", path, body)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(path string) error {
	req, err := http.NewRequest("DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) jsonRequest(method, path string, body interface{}) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
