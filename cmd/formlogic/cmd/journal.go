package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solatis/formlogic/internal/core/api"
	"github.com/solatis/formlogic/internal/core/db"
)

func newJournalCommand(opts *rootOptions) *cobra.Command {
	var (
		formID  string
		purgeID string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent purges recorded in the database, or show one by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			journal, closeDB, err := opts.openJournal(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			if purgeID != "" {
				entry, err := journal.Get(ctx, purgeID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), api.JournalResponse{Entries: []db.JournalEntry{entry}})
			}

			entries, err := journal.Recent(ctx, formID, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), api.JournalResponse{Entries: entries})
		},
	}

	cmd.Flags().StringVar(&formID, "form-id", "", "only list purges of this form")
	cmd.Flags().StringVar(&purgeID, "purge-id", "", "show the single purge with this id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")
	return cmd
}
