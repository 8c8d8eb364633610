package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/formlogic/internal/core/api"
	"github.com/solatis/formlogic/internal/core/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC FormLogic service",
		Long: `Serve exposes Resolve, CheckSubmission, Purge, Lint, and Journal over gRPC
using the JSON content-subtype. When --db-url is set, purges are journaled
and the database is migrated on startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	cmd.Flags().Int("port", 50061, "gRPC server port")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger := opts.cfg, opts.logger

	var journal api.Journal
	if cfg.DatabaseURL != "" {
		j, closeDB, err := opts.openJournal(ctx)
		if err != nil {
			return err
		}
		defer closeDB()
		journal = j
	} else {
		logger.Warn("no database configured; purges will not be journaled")
	}

	service, err := api.NewService(opts.engine(), journal, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting FormLogic service",
		zap.String("version", Version),
		zap.String("address", cfg.Address()),
		zap.Duration("request_timeout", cfg.RequestTimeout))
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("shutting down gracefully")
		return grpcServer.Shutdown(context.Background())
	}
}
