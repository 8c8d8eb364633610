package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/formlogic/internal/formfile"
	"github.com/solatis/formlogic/internal/rules"
	"github.com/solatis/formlogic/internal/types"
)

// resolveOutput matches the shape of the gRPC Resolve response.
type resolveOutput struct {
	States   map[string]types.Visibility `json:"states"`
	Sections map[string]bool             `json:"sections"`
	Explain  map[string]rules.NodeResult `json:"explain,omitempty"`
}

func newResolveCommand(opts *rootOptions) *cobra.Command {
	var explain, watch bool

	cmd := &cobra.Command{
		Use:   "resolve <definition> <values>",
		Short: "Resolve field and section visibility for a set of values",
		Long: `Resolve loads a form definition and a values file (JSON or YAML) and prints
the state of every field and whether each section is shown.

With --watch, both files are watched and the result is printed again after
every save until interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defPath, valuesPath := args[0], args[1]
			run := func() error {
				return resolveFiles(cmd.OutOrStdout(), opts.engine(), defPath, valuesPath, explain)
			}
			if !watch {
				return run()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchAndResolve(ctx, opts.logger, run, defPath, valuesPath)
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "include per-node condition results")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-resolve when either file changes")
	return cmd
}

func resolveFiles(w io.Writer, engine *rules.Engine, defPath, valuesPath string, explain bool) error {
	def, err := formfile.LoadDefinition(defPath)
	if err != nil {
		return err
	}
	values, err := formfile.LoadValues(valuesPath)
	if err != nil {
		return err
	}

	states, err := engine.Resolve(def.Fields, values)
	if err != nil {
		return err
	}
	out := resolveOutput{
		States:   states,
		Sections: make(map[string]bool, len(def.Sections)),
	}
	for _, sec := range def.Sections {
		out.Sections[sec.ID] = rules.SectionVisible(sec.ID, def.Fields, states)
	}
	if explain {
		out.Explain = make(map[string]rules.NodeResult)
		for _, f := range def.Fields {
			if f.Logic == nil {
				continue
			}
			if _, seen := out.Explain[f.ID]; !seen {
				out.Explain[f.ID] = rules.Explain(&f.Logic.ConditionGroup, values, def.Fields)
			}
		}
	}
	return writeJSON(w, out)
}

// watchAndResolve prints once, then again after every change. A file that
// fails to load mid-edit is logged and the watch continues.
func watchAndResolve(ctx context.Context, logger *zap.Logger, run func() error, paths ...string) error {
	if err := run(); err != nil {
		logger.Warn("resolve failed", zap.Error(err))
	}

	watcher, err := formfile.NewWatcher(paths...)
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger.Info("watching for changes", zap.Strings("paths", paths))
	err = watcher.Run(ctx, func() {
		if err := run(); err != nil {
			logger.Warn("resolve failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("watch stopped: %w", err)
	}
	return nil
}
