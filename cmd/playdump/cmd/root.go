// Package cmd implements playdump's CLI commands, following
// cmd/tvarr/cmd's cobra+viper layout in the example pack.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playvdk/vdk/internal/config"
	"github.com/playvdk/vdk/internal/obslog"
	"github.com/playvdk/vdk/internal/version"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	logger *obslog.Logger
)

// rootCmd is the base command when playdump is called without
// subcommands.
var rootCmd = &cobra.Command{
	Use:     "playdump",
	Short:   "Decode a media file frame-by-frame and print its presentation timeline",
	Version: version.String(),
	Long: `playdump drives the scheduler's Player end to end against a local
file: it opens the container, decodes each frame in presentation
order, and prints the timeline to stdout. It exists to exercise the
library's public facade without a rendering host.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initLogging()
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/playdump, $HOME/.playdump)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	config.BindPFlags(viper.GetViper(), rootCmd.PersistentFlags())
}

// initConfig reads playdump's config file and environment variables,
// following the teacher's initConfig.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("playdump")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/playdump")
		viper.AddConfigPath("$HOME/.playdump")
	}

	viper.SetEnvPrefix("PLAYDUMP")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig() // a missing config file is not an error
}

// initLogging builds the process-wide Logger from the resolved
// logging.level/logging.format viper keys.
func initLogging() error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("resolving logging configuration: %w", err)
	}
	logger = obslog.New(cfg.Logging.Level, cfg.Logging.Format, nil)
	return nil
}
