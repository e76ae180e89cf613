package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account on the yatra server. A verification code is emailed to you; confirm it with 'yatra verify'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:8020)")

	return cmd
}

func runRegister(serverFlag string) error {
	if serverFlag != "" {
		cfg, err := loadConfig()
		if err != nil {
			cfg = CLIConfig{}
		}
		cfg.ServerURL = serverFlag
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	reader := bufio.NewReader(os.Stdin)
	name, err := prompt(reader, "Name", "")
	if err != nil {
		return err
	}
	email, err := prompt(reader, "Email", "")
	if err != nil {
		return err
	}
	password, err := prompt(reader, "Password (min 8 characters)", "")
	if err != nil {
		return err
	}

	c := newAPIClient()
	resp, err := c.Register(name, email, password)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(resp)
	}

	fmt.Println("✓ Account created.")
	fmt.Println(resp.Message)
	fmt.Printf("\nRun 'yatra verify %s <code>' with the code from your email.\n", email)
	return nil
}
