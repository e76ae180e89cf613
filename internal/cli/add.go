package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yatrik/yatra/internal/visit"
	"github.com/yatrik/yatra/internal/wizard"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Record a new visit",
		Long:  "Walk through the visit entry steps: visit type, details, then family members or review.",
		Args:  cobra.NoArgs,
		RunE:  runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	c, err := newAuthedClient()
	if err != nil {
		return err
	}

	w := wizard.New()
	submit := wizard.SubmitterFunc(func(p visit.Payload) error {
		_, err := c.CreateVisit(p)
		return err
	})

	if err := runWizard(bufio.NewReader(os.Stdin), w, submit); err != nil {
		if errors.Is(err, errCanceled) {
			fmt.Println("Visit not recorded.")
			return nil
		}
		return err
	}
	return nil
}
