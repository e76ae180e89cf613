package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yatrik/yatra/internal/visit"
)

// filterFlags holds the list/export filter options mapped onto the
// filter pipeline's criteria.
type filterFlags struct {
	search string
	vtype  string
	period string
	sort   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "search place, purpose, mantra, and member names")
	cmd.Flags().StringVar(&f.vtype, "type", "all", "visit type filter (all|individual|family)")
	cmd.Flags().StringVar(&f.period, "period", "all", "date window (all|today|yesterday|week|month|year)")
	cmd.Flags().StringVar(&f.sort, "sort", "newest", "sort order (newest|oldest|name-asc|name-desc)")
}

func (f *filterFlags) criteria() (visit.Criteria, error) {
	c := visit.DefaultCriteria()
	c.SearchTerm = f.search

	switch f.vtype {
	case "all", "":
	case string(visit.Individual), string(visit.Family):
		c.VisitType = f.vtype
	default:
		return c, fmt.Errorf("invalid --type: %s (all|individual|family)", f.vtype)
	}

	df := visit.DateFilter(f.period)
	switch df {
	case visit.DateAll, visit.DateToday, visit.DateYesterday, visit.DateWeek, visit.DateMonth, visit.DateYear:
		c.DateFilter = df
	default:
		return c, fmt.Errorf("invalid --period: %s (all|today|yesterday|week|month|year)", f.period)
	}

	so := visit.SortOrder(f.sort)
	switch so {
	case visit.SortNewest, visit.SortOldest, visit.SortNameAsc, visit.SortNameDesc:
		c.SortBy = so
	default:
		return c, fmt.Errorf("invalid --sort: %s (newest|oldest|name-asc|name-desc)", f.sort)
	}

	return c, nil
}

// fetchFiltered lists the devotee's visits and applies the filter
// pipeline client-side.
func fetchFiltered(flags *filterFlags) ([]*visit.Visit, error) {
	criteria, err := flags.criteria()
	if err != nil {
		return nil, err
	}

	c, err := newAuthedClient()
	if err != nil {
		return nil, err
	}

	visits, err := c.ListVisits()
	if err != nil {
		return nil, err
	}

	return visit.Filter(visits, criteria), nil
}

func newListCmd() *cobra.Command {
	flags := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your visits",
		Long:  "List your recorded visits, with search, type, date window, and sort filters applied client-side.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func runList(flags *filterFlags) error {
	visits, err := fetchFiltered(flags)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(visits)
	}

	return printVisitTable(visits)
}
