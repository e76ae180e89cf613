package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var resend bool

	cmd := &cobra.Command{
		Use:   "verify <email> [code]",
		Short: "Verify your email address",
		Long: `Confirm the verification code emailed during registration.

Use --resend to request a fresh code instead of confirming one.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args, resend)
		},
	}

	cmd.Flags().BoolVar(&resend, "resend", false, "request a fresh verification code")

	return cmd
}

func runVerify(args []string, resend bool) error {
	email := args[0]
	c := newAPIClient()

	if resend {
		if err := c.ResendOTP(email); err != nil {
			return err
		}
		fmt.Println("If that account exists, a fresh code is on its way.")
		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("verification code required: yatra verify %s <code>", email)
	}

	if err := c.VerifyOTP(email, args[1]); err != nil {
		return err
	}

	fmt.Println("✓ Email verified. Run 'yatra login' to sign in.")
	return nil
}
