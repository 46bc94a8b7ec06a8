package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"shelfscan/internal/collection"
	"shelfscan/internal/logging"
	"shelfscan/internal/pipeline"
	"shelfscan/internal/preflight"
	"shelfscan/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if trimmed := strings.TrimSpace(bind); trimmed != "" {
				cfg.Paths.APIBind = trimmed
			}
			logger, err := ctx.logger(true)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			for _, result := range preflight.RunAll(runCtx, cfg) {
				if result.Passed {
					logger.Debug("preflight check passed",
						logging.String("check", result.Name),
						logging.String("detail", result.Detail),
					)
					continue
				}
				logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail),
					logging.String(logging.FieldErrorHint, "run shelfscan check for details"),
					logging.String(logging.FieldImpact, "server started with reduced functionality"),
				)
			}

			store, err := collection.Open(cfg)
			if err != nil {
				return fmt.Errorf("open collection: %w", err)
			}
			defer store.Close()

			lookup, err := pipeline.FromConfig(cfg, logger)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, server.Dependencies{
				Store:          store,
				Lookup:         lookup,
				Backends:       lookup.Backends(),
				TMDBConfigured: lookup.MetadataConfigured(),
				Logger:         logger,
			})
			if err != nil {
				return err
			}
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", srv.Addr())

			<-runCtx.Done()
			srv.Stop()
			logger.Info("shelfscan shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind (host:port)")
	return cmd
}
