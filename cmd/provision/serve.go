package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	"github.com/mohammadpnp/user-provisioning/internal/bootstrap"
	"github.com/mohammadpnp/user-provisioning/internal/logging"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sandbox user-management API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Sandbox.Addr = addr
			}

			logger, closeLog, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, "", cmd.OutOrStdout())
			if err != nil {
				return withCode(app.ExitFailure, err)
			}
			defer closeLog()

			ctx := cmd.Context()
			repo, closeRepo, err := bootstrap.OpenRepository(ctx, cfg.Sandbox.DatabaseURL)
			if err != nil {
				logger.Error("Fatal error", "error", err)
				return withCode(app.ExitFailure, err)
			}
			defer closeRepo()

			server := bootstrap.NewHTTPServer(repo)

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("Sandbox API listening", "addr", cfg.Sandbox.Addr, "postgres", cfg.Sandbox.DatabaseURL != "")
				if err := server.Start(cfg.Sandbox.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					logger.Error("Fatal error", "error", err)
					return withCode(app.ExitFailure, err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Sandbox.ShutdownTimeout)
			defer cancel()

			logger.Info("Shutting down sandbox API")
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("Fatal error", "error", err)
				return withCode(app.ExitFailure, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from SANDBOX_ADDR)")
	return cmd
}
