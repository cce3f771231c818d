// Root command for the stackbox CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazu/stackbox/pkg/config"
)

// Global flag values.
var (
	configFile string
	verbose    bool
)

var (
	// settings holds every configuration layer below the script.
	settings = config.New()

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "stackbox",
	Short: "Generate a parametric stackable storage box",
	Long: `stackbox builds a two-piece storage box, a bottom and a lid, from a
handful of dimensions. The lid's boss mates with the socket in the floor of
another box so boxes stack. Parts are written as STL or 3MF.

Settings come from stackbox.yaml, STACKBOX_* environment variables, flags,
and an optional parameter script, in increasing precedence.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./stackbox.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every build stage")
	if err := config.BindFlags(settings, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(dimsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}
