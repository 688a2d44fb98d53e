package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/undoredo/internal/demo"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Play the colored light demo",
		Long: `Switches a light on, undoes and redoes it, then switches it on and
recolors it inside one transaction and undoes both changes at once.

Example:
  undoredo demo
  undoredo demo --lang de`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return demo.Run(opts.manager, cmd.OutOrStdout())
		},
	}
}
