package main

import (
	"github.com/spf13/cobra"
)

func newNavigateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "Resolve a page through the route guard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				m, err := a.pages.Navigate(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printf(out, "%s\n", m.FullPath())
				printf(out, "%s\n", a.pages.Title())
				return nil
			})
		},
	}
}
