package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/app"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/sbazv"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}

			logger := newLogger(cfg.LogLevel)

			client := sbazv.NewClient(sbazv.ClientConfig{
				FeedURL: cfg.FeedURL,
				TTL:     cfg.CacheTTL,
				Timeout: cfg.FetchTimeout,
				Logger:  logger,
			})

			auth, err := app.LoadAuthenticator(cfg.AuthFile, logger)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			app.NewServer(cfg, client, auth, logger).Routes(mux)

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Port),
				Handler: mux,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			if cfg.FeedURL == "" {
				logger.Warn("SBAZV_FEED_URL not set - serving cached or generated schedules only")
			}
			logger.Infof("Abfall-Feed listening on http://localhost:%d", cfg.Port)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides PORT)")
	return cmd
}
