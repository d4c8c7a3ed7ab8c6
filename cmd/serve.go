package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/haggle/internal/adapters/httpapi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var (
		listen   string
		noTokens bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the negotiation API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = app.cfg.Server.Listen
			}

			deps := httpapi.Deps{
				Negotiations: app.negotiations,
				Quotes:       app.catalog,
				Logger:       app.logger,
			}
			if !noTokens {
				sealer, err := app.sealer(cmd.Context())
				if err != nil {
					return fmt.Errorf("state tokens: %w", err)
				}
				deps.Tokens = sealer
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.serve(ctx, listen, httpapi.NewRouter(deps))
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from server.listen)")
	cmd.Flags().BoolVar(&noTokens, "no-tokens", false, "disable sealed state tokens on /v1/evaluate")

	return cmd
}

// serve runs until ctx is done, then drains in-flight requests.
func (a *app) serve(ctx context.Context, listen string, handler http.Handler) error {
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listen, err)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("haggle server starting", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
