package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkUploadsCmd = &cobra.Command{
	Use:   "check-uploads",
	Short: "Verify the upload directory",
	Long:  `Checks that the upload directory and its folders exist and are writable.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store := newStore()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "upload directory: %s\n", store.Root())
		fmt.Fprintf(out, "public base URL:  %s\n", cfg.Uploads.BaseURL)
		fmt.Fprintf(out, "max upload size:  %d MB\n", cfg.Uploads.MaxUploadMB)

		problems := store.Check()
		for _, p := range problems {
			fmt.Fprintf(out, "  ✗ %v\n", p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("%d problem(s) found", len(problems))
		}
		fmt.Fprintln(out, "  ✓ upload directory ready")
		return nil
	},
}
