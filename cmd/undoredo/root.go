package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/undoredo/internal/config"
	"github.com/dshills/undoredo/internal/engine/history"
	"github.com/dshills/undoredo/internal/logging"
)

// rootOptions holds the global flags and the runtime built from them.
type rootOptions struct {
	configPath string
	logLevel   string
	lang       string

	cfg     *config.Config
	logger  *zap.Logger
	manager *history.Manager
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "undoredo",
		Short: "Undo and redo with transactions",
		Long: `undoredo records inverse operations in an undo manager and replays them.
It ships a small demo and a Lua runner whose scripts register undo
operations through the "undo" module.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML or YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "", "Menu title language as a BCP 47 tag (en, de, fr)")

	cmd.AddCommand(
		newDemoCmd(opts),
		newRunCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger and manager.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("lang") {
		cfg.History.Language = o.lang
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, _, err := logging.NewWithWriter(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger
	o.manager = history.NewManager(
		history.WithLogger(logger.Named("history")),
		history.WithLanguage(cfg.LanguageTag()),
		history.WithLevelsOfUndo(cfg.History.LevelsOfUndo),
	)

	logger.Debug("configuration loaded",
		zap.String("config", o.configPath),
		zap.String("language", cfg.History.Language),
		zap.Int("levelsOfUndo", cfg.History.LevelsOfUndo),
	)
	return nil
}
