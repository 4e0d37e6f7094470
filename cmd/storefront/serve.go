package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/forestplants/storefront/internal/api"
	"github.com/forestplants/storefront/internal/api/handler"
	"github.com/forestplants/storefront/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the shell: page navigation, client state and the /api proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return opts.withApp(ctx, func(a *app) error {
				e, err := api.NewRouter(api.Deps{
					Session: a.session,
					Cart:    a.cart,
					Pages:   a.pages,
					Ready: map[string]handler.Pinger{
						"storage": a.storage,
						"backend": a.api,
					},
					ProxyTarget: a.cfg.Shell.ProxyTarget,
					Registerer:  prometheus.DefaultRegisterer,
					Log:         logger.For("shell"),
				})
				if err != nil {
					return err
				}

				addr := net.JoinHostPort("", a.cfg.Shell.Port)
				errCh := make(chan error, 1)
				go func() {
					a.log.Info().Str("addr", addr).Str("proxy_target", a.cfg.Shell.ProxyTarget).Msg("shell listening")
					if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
					close(errCh)
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				a.log.Info().Msg("shell shutting down")
				return e.Shutdown(shutdownCtx)
			})
		},
	}
}
