package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newChangePasswordCmd() *cobra.Command {
	var forgot bool

	cmd := &cobra.Command{
		Use:   "change-password <email>",
		Short: "Change your password",
		Long: `Change the password for an account.

By default asks for the current password as proof. With --forgot a reset
code is emailed first and used as proof instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangePassword(args[0], forgot)
		},
	}

	cmd.Flags().BoolVar(&forgot, "forgot", false, "prove identity with an emailed reset code instead of the current password")

	return cmd
}

func runChangePassword(email string, forgot bool) error {
	c := newAPIClient()
	reader := bufio.NewReader(os.Stdin)

	var current, otp string
	var err error
	if forgot {
		if err := c.ForgotPassword(email); err != nil {
			return err
		}
		fmt.Println("If that account exists, a reset code is on its way.")
		otp, err = prompt(reader, "Reset code", "")
		if err != nil {
			return err
		}
	} else {
		current, err = prompt(reader, "Current password", "")
		if err != nil {
			return err
		}
	}

	newPassword, err := prompt(reader, "New password (min 8 characters)", "")
	if err != nil {
		return err
	}

	if err := c.ChangePassword(email, current, otp, newPassword); err != nil {
		return err
	}

	fmt.Println("✓ Password changed. Existing sessions are signed out; run 'yatra login'.")
	return nil
}
