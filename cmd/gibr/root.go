package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/byte4ever/gibr/config"
	"github.com/byte4ever/gibr/mr"
	"github.com/byte4ever/gibr/notify"
)

var (
	// Global flags.
	cfgPath string
	verbose bool

	// Loaded configuration shared by the subcommands.
	cfg *config.Config
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "gibr",
	Short: "GitLab merge requests from the current checkout",
	Long: `gibr creates GitLab merge requests for the current branch and
generates issue-based branches, using a .gibr.yaml configuration
file for the service URL, token, and optional issue tracker.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(
		cmd *cobra.Command,
		_ []string,
	) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(
			slog.NewTextHandler(
				os.Stderr,
				&slog.HandlerOptions{Level: level},
			),
		))

		if cmd.Name() == "help" {
			return nil
		}

		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf(
				"loading configuration: %w", err,
			)
		}

		cfg = loaded

		return nil
	},
}

// Execute runs the root command and exits non-zero on failure,
// naming the failure kind.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		notify.Error(
			"%s: %v", mr.FailureKind(err), err,
		)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgPath, "config", "",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable debug logging",
	)

	rootCmd.AddCommand(mrCmd)
	rootCmd.AddCommand(createCmd)
}
