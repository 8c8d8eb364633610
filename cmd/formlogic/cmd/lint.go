package cmd

import (
	"errors"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/solatis/formlogic/internal/formfile"
	"github.com/solatis/formlogic/internal/rules"
)

// errLintFailed is returned after printing results when any file has errors.
var errLintFailed = errors.New("lint found errors")

type lintOutput struct {
	Path string `json:"path"`
	rules.LintResult
}

func newLintCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <definition>...",
		Short: "Report rule mistakes the evaluator silently tolerates",
		Long: `Lint checks every logic rule for dangling and self references, empty groups,
excess nesting, and unknown operators. Files are checked concurrently and
reported in argument order. Exits non-zero when any file has an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := opts.engine()
			results := make([]lintOutput, len(args))

			g := new(errgroup.Group)
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					def, err := formfile.LoadDefinition(path)
					if err != nil {
						return err
					}
					res, err := engine.Lint(def.Fields)
					if err != nil {
						return err
					}
					results[i] = lintOutput{Path: path, LintResult: res}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			for _, r := range results {
				if !r.Valid {
					return errLintFailed
				}
			}
			return nil
		},
	}
}
