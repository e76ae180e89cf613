package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored access token is valid, refreshing it if possible.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	serverURL := getServerURL()
	token := getAccessToken()

	fmt.Printf("Server:  %s\n", serverURL)

	if token == "" {
		fmt.Println("Tokens:  not configured")
		fmt.Println("\nRun 'yatra login' to authenticate.")
		return nil
	}

	prefix := token
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	fmt.Printf("Token:   %s…\n", prefix)

	switch ping(serverURL, token) {
	case http.StatusOK:
		fmt.Println("Status:  ✓ connected and authenticated")
	case http.StatusUnauthorized:
		if refreshTokens(serverURL) {
			fmt.Println("Status:  ✓ access token was expired, refreshed")
			return nil
		}
		fmt.Println("Status:  ✗ token expired or invalid")
		fmt.Println("\nRun 'yatra login' to re-authenticate.")
	case 0:
		fmt.Println("Status:  ✗ cannot reach server")
	default:
		fmt.Println("Status:  ✗ unexpected response")
	}

	return nil
}

// ping sends an authenticated request and returns the status code, or 0
// when the server is unreachable.
func ping(serverURL, token string) int {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest("GET", serverURL+"/api/v1/visits", nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	return resp.StatusCode
}

// refreshTokens rotates the stored refresh token and saves the new pair.
// Returns false when there is no refresh token or rotation fails.
func refreshTokens(serverURL string) bool {
	cfg, err := loadConfig()
	if err != nil || cfg.RefreshToken == "" {
		return false
	}

	resp, err := newAPIClientAt(serverURL).Refresh(cfg.RefreshToken)
	if err != nil {
		return false
	}

	cfg.AccessToken = resp.AccessToken
	cfg.RefreshToken = resp.RefreshToken
	return saveConfig(cfg) == nil
}
