package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yatrik/yatra/internal/pdf"
)

func newExportCmd() *cobra.Command {
	flags := &filterFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export visits to a PDF report",
		Long:  "Render your visits as a landscape PDF report. The same filter flags as 'list' select which visits are included.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "Spiritual_visits.pdf", "output file path")

	return cmd
}

func runExport(flags *filterFlags, output string) error {
	visits, err := fetchFiltered(flags)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}

	if err := pdf.Report(f, devoteeName(cfg), visits); err != nil {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing %s: %v\n", output, cerr)
		}
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", output, err)
	}

	fmt.Printf("✓ Exported %d visits to %s\n", len(visits), output)
	return nil
}

// devoteeName derives a display name from the stored email, falling
// back to a generic label.
func devoteeName(cfg CLIConfig) string {
	if cfg.Email != "" {
		return cfg.Email
	}
	return "Devotee"
}
