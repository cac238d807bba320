package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func ReconcileCmd() *cobra.Command {
	var (
		dryRun bool
		grace  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Delete generated files that have no document row",
		Long: `Lists files under UPLOAD_DIR and compares them with the documents table.
Files without a row that are older than --grace are deleted. Newer files are
left alone since their generation may still be committing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.DocumentService.Reconcile(grace, dryRun)
			if err != nil {
				return err
			}

			verb := "removed"
			if dryRun {
				verb = "would remove"
			}
			for _, key := range report.Orphans {
				fmt.Printf("%s %s\n", verb, key)
			}
			fmt.Printf("checked %d files: %d orphans, %d removed, %d within grace period\n",
				report.Checked, len(report.Orphans), len(report.Removed), report.Recent)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report orphans without deleting them")
	cmd.Flags().DurationVar(&grace, "grace", time.Hour, "skip files modified more recently than this")
	return cmd
}
