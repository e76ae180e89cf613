package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Log in and store tokens",
		Long:  "Exchange your email and password for access tokens, stored in the CLI config for later commands.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) > 0 {
				email = args[0]
			}
			return runLogin(server, email)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:8020)")

	return cmd
}

func runLogin(serverFlag, email string) error {
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		email, err = prompt(reader, "Email", cfg.Email)
		if err != nil {
			return err
		}
	}
	password, err := prompt(reader, "Password", "")
	if err != nil {
		return err
	}

	serverURL := cfg.ServerURL
	if serverURL == "" {
		serverURL = getServerURL()
	}

	c := newAPIClientAt(serverURL)
	resp, err := c.Login(email, password)
	if err != nil {
		return err
	}

	cfg.Email = resp.User.Email
	cfg.AccessToken = resp.AccessToken
	cfg.RefreshToken = resp.RefreshToken

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Logged in as %s. Sat Saheb!\n", resp.User.Name)
	return nil
}
