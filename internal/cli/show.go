package cli

import (
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show visit details",
		Long:  "Show full details for one visit, including family members.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := newAuthedClient()
	if err != nil {
		return err
	}

	v, err := c.GetVisit(args[0])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(v)
	}

	printVisitSummary(v)
	return nil
}
