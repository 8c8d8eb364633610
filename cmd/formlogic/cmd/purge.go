package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	"github.com/solatis/formlogic/internal/core/api"
	"github.com/solatis/formlogic/internal/formfile"
)

func newPurgeCommand(opts *rootOptions) *cobra.Command {
	var (
		fieldIDs   []string
		sectionIDs []string
		formID     string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "purge <definition>",
		Short: "Remove fields or sections and every rule that references them",
		Long: `Purge deletes the given fields (or every field of the given sections) and
rewrites the remaining logic rules so nothing refers to them. Empty groups
are dropped and a rule left with no conditions is cleared.

The rewritten definition is written to --output, or to stdout in the input's
format. When --db-url is set the purge is recorded in the journal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			def, err := formfile.LoadDefinition(args[0])
			if err != nil {
				return err
			}

			var journal api.Journal
			if opts.cfg.DatabaseURL != "" {
				j, closeDB, err := opts.openJournal(ctx)
				if err != nil {
					return err
				}
				defer closeDB()
				journal = j
			}

			svc, err := api.NewService(opts.engine(), journal, opts.logger)
			if err != nil {
				return err
			}
			resp, err := svc.Purge(ctx, &api.PurgeRequest{
				FormID:     formID,
				Definition: def,
				FieldIDs:   fieldIDs,
				SectionIDs: sectionIDs,
			})
			if err != nil {
				return fmt.Errorf("purge: %s", status.Convert(err).Message())
			}

			if output != "" {
				return formfile.SaveDefinition(output, resp.Definition)
			}
			format, err := formfile.FormatFor(args[0])
			if err != nil {
				return err
			}
			return formfile.WriteDefinition(cmd.OutOrStdout(), resp.Definition, format)
		},
	}

	cmd.Flags().StringSliceVar(&fieldIDs, "field", nil, "field id to remove (repeatable)")
	cmd.Flags().StringSliceVar(&sectionIDs, "section", nil, "section id to remove with all its fields (repeatable)")
	cmd.Flags().StringVar(&formID, "form-id", "", "form identifier recorded in the journal")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the definition to this file instead of stdout")
	return cmd
}
