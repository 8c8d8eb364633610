package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solatis/formlogic/internal/core/db"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var showStatus bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending journal database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.cfg.DatabaseURL == "" {
				return fmt.Errorf("--db-url required")
			}
			database, err := db.Open(ctx, opts.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			out := cmd.OutOrStdout()
			if showStatus {
				statuses, err := db.MigrateStatus(ctx, database)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "MIGRATION\tAPPLIED\tAPPLIED AT")
				for _, s := range statuses {
					at := "-"
					if s.AppliedAt != nil {
						at = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(tw, "%s\t%t\t%s\n", s.ID, s.Applied, at)
				}
				return tw.Flush()
			}

			applied, err := db.MigrateUp(ctx, database)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "database is up to date")
				return nil
			}
			for _, id := range applied {
				fmt.Fprintf(out, "applied %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStatus, "status", false, "show migration status without applying")
	return cmd
}
