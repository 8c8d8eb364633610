package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/formlogic/internal/core/config"
	"github.com/solatis/formlogic/internal/core/db"
	"github.com/solatis/formlogic/internal/core/logging"
	"github.com/solatis/formlogic/internal/rules"
)

const Version = "0.1.0"

// rootOptions holds global flags and the state PersistentPreRunE builds
// from them.
type rootOptions struct {
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string

	cfg    *config.ServiceConfig
	logger *zap.Logger
}

// NewRootCommand creates the formlogic command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "formlogic",
		Short:   "FormLogic conditional form engine",
		Long:    `FormLogic evaluates conditional show, hide, and require rules on form definitions.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "json", "log format (json, text)")

	cmd.AddCommand(newResolveCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newPurgeCommand(opts))
	cmd.AddCommand(newLintCommand(opts))
	cmd.AddCommand(newJournalCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newServeCommand(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// engine builds a rules engine bounded by the configured limits.
func (o *rootOptions) engine() *rules.Engine {
	return rules.NewEngine(rules.Limits{
		MaxFields:    o.cfg.MaxFields,
		MaxRuleNodes: o.cfg.MaxRuleNodes,
	})
}

// openJournal opens and migrates the configured database. The returned
// close func is never nil.
func (o *rootOptions) openJournal(ctx context.Context) (*db.Journal, func(), error) {
	if o.cfg.DatabaseURL == "" {
		return nil, func() {}, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(ctx, o.cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open database: %w", err)
	}
	closeDB := func() { database.Close() }

	applied, err := db.MigrateUp(ctx, database)
	if err != nil {
		closeDB()
		return nil, func() {}, fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, id := range applied {
		o.logger.Info("applied migration", zap.String("migration_id", id))
	}

	journal, err := db.NewJournal(database)
	if err != nil {
		closeDB()
		return nil, func() {}, fmt.Errorf("failed to load queries: %w", err)
	}
	return journal, closeDB, nil
}

// writeJSON writes v as indented JSON. Map keys come out sorted, so output is
// stable across runs.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
