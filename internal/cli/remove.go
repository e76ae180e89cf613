package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a visit",
		Long:  "Remove a visit and its family members. Asks for confirmation first; a declined confirmation sends no request.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(bufio.NewReader(os.Stdin), args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runRemove(in *bufio.Reader, id string, yes bool) error {
	c, err := newAuthedClient()
	if err != nil {
		return err
	}

	v, err := c.GetVisit(id)
	if err != nil {
		return err
	}

	if !yes {
		fmt.Printf("Remove visit to %s on %s?\n", v.Place, v.Date)
		ok, err := promptYesNo(in, "This cannot be undone. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Visit kept.")
			return nil
		}
	}

	if err := c.DeleteVisit(v.ID); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{
			"id":      v.ID,
			"removed": true,
		})
	}

	fmt.Printf("Visit to %s removed.\n", v.Place)
	return nil
}
