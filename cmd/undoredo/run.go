package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/undoredo/internal/script"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Run a Lua script against the undo manager",
		Long: `Runs a Lua script in a sandboxed state. The global "undo" table registers
inverse operations and replays them:

  undo.register(target, "method", args...)
  undo.undo(), undo.redo(), undo.can_undo(), undo.can_redo()
  undo.begin([name]), undo.commit(), undo.rollback()
  undo.set_action_name(name), undo.undo_title(), undo.redo_title()

Example:
  undoredo run light.lua`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, opts, args[0], timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", script.DefaultExecutionTimeout, "Maximum script run time (0 for none)")
	return cmd
}

func runScript(cmd *cobra.Command, opts *rootOptions, path string, timeout time.Duration) (err error) {
	logger := opts.logger.Named("script")

	state := script.NewState(opts.manager,
		script.WithOutput(cmd.OutOrStdout()),
		script.WithLogger(logger),
		script.WithExecutionTimeout(timeout),
	)
	defer func() {
		if cerr := state.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := state.DoFile(path); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}

	logger.Debug("script finished",
		zap.String("path", path),
		zap.Int("undo", opts.manager.UndoCount()),
		zap.Int("redo", opts.manager.RedoCount()),
	)
	return nil
}
