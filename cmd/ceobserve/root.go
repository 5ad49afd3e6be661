package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/ceobserve/internal/config"
)

var (
	configPath string
	verbose    bool

	appConfig *config.Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "ceobserve",
	Short:        "Observe a ContentEditable surface for content and selection changes",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		appConfig = cfg
		logger = newLogger(cmd.ErrOrStderr(), cfg.Level(), verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func newLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
