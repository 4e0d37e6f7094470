package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/forestplants/storefront/internal/pkg/config"
	"github.com/forestplants/storefront/pkg/logger"
)

type rootOptions struct {
	location string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "storefront",
		Short:        "Forest Plant Store client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: cmd.ErrOrStderr()})
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.location, "at", "/", "page the client is on when the command runs")

	cmd.AddCommand(
		newServeCmd(opts),
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newCartCmd(opts),
		newNavigateCmd(opts),
	)
	return cmd
}

// withApp builds the client for one command run.
func (o *rootOptions) withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx, o.cfg, o.location)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
