package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/solatis/formlogic/internal/core/api"
	"github.com/solatis/formlogic/internal/formfile"
)

// errSubmissionInvalid is returned after printing the missing fields.
var errSubmissionInvalid = errors.New("submission has missing required fields")

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <definition> <values>",
		Short: "Check a submission for missing required fields",
		Long: `Check prints every visible field that is required, either statically or by
its logic rule, and has no value. Exits non-zero when any field is missing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := formfile.LoadDefinition(args[0])
			if err != nil {
				return err
			}
			values, err := formfile.LoadValues(args[1])
			if err != nil {
				return err
			}

			missing, err := opts.engine().Missing(def.Fields, values)
			if err != nil {
				return err
			}
			out := api.CheckSubmissionResponse{Valid: len(missing) == 0, Missing: make([]api.MissingField, 0, len(missing))}
			for _, f := range missing {
				out.Missing = append(out.Missing, api.MissingField{ID: f.ID, Name: f.Name, Label: f.Label})
			}
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if !out.Valid {
				return errSubmissionInvalid
			}
			return nil
		},
	}
}
