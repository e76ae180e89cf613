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

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a recorded visit",
		Long:  "Walk through the visit entry steps again, pre-filled with the visit's current values.",
		Args:  cobra.ExactArgs(1),
		RunE:  runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	c, err := newAuthedClient()
	if err != nil {
		return err
	}

	v, err := c.GetVisit(args[0])
	if err != nil {
		return err
	}

	w := wizard.Load(v)
	submit := wizard.SubmitterFunc(func(p visit.Payload) error {
		_, err := c.UpdateVisit(v.ID, p)
		return err
	})

	if err := runWizard(bufio.NewReader(os.Stdin), w, submit); err != nil {
		if errors.Is(err, errCanceled) {
			fmt.Println("Visit unchanged.")
			return nil
		}
		return err
	}
	return nil
}
