package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/tally-statement-converter/internal/api"
	"github.com/insightdelivered/tally-statement-converter/internal/buildinfo"
	"github.com/insightdelivered/tally-statement-converter/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(env *environment) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and web UI when STATIC_DIR is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := env.load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr()
			}

			h := api.NewHandler(api.HandlerConfig{
				Logger:        logger,
				Metrics:       metrics.New(),
				DefaultLedger: cfg.Tally.DefaultPartyLedger,
				Version:       buildinfo.Version,
			})
			app := api.NewApp(cfg.Server, h)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", slog.String("addr", addr), slog.String("version", buildinfo.Version))
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("serving on %s: %w", addr, err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from SERVER_HOST and SERVER_PORT)")
	return cmd
}
