package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/yatrik/yatra/internal/visit"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitSummary prints a single visit in text format.
func printVisitSummary(v *visit.Visit) {
	fmt.Printf("Visit %s\n", v.ID)
	fmt.Printf("  Place:    %s\n", v.Place)
	fmt.Printf("  Date:     %s\n", v.Date)
	fmt.Printf("  Type:     %s\n", v.VisitType.Label())
	fmt.Printf("  Mantra:   %s\n", v.Mantra)
	fmt.Printf("  Purpose:  %s\n", v.PurposeText())
	if len(v.FamilyMembers) > 0 {
		fmt.Printf("  Family (%d):\n", len(v.FamilyMembers))
		for i, m := range v.FamilyMembers {
			line := fmt.Sprintf("    %d. %s - %s", i+1, m.Name, m.Relationship)
			if m.Age != nil {
				line += fmt.Sprintf(", age %d", *m.Age)
			}
			if m.Mantra != "" {
				line += fmt.Sprintf(" (%s)", m.Mantra)
			}
			fmt.Println(line)
		}
	}
}

// printVisitTable prints a list of visits as a formatted table.
func printVisitTable(visits []*visit.Visit) error {
	if len(visits) == 0 {
		fmt.Println("No visits found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tDATE\tPLACE\tTYPE\tMANTRA\tPURPOSE\tFAMILY"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-----\t----\t------\t-------\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, v := range visits {
		family := "-"
		if len(v.FamilyMembers) > 0 {
			family = fmt.Sprintf("%d", len(v.FamilyMembers))
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(v.ID), v.Date, truncate(v.Place, 30), v.VisitType.Label(),
			v.Mantra, truncate(v.PurposeText(), 25), family); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d visits\n", len(visits))
	return nil
}

// shortID returns the first segment of a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
