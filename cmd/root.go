// Package cmd defines the CLI commands for deck.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	noColor    bool
	cfgFile    string
	gatewayURL string
)

// rootCmd is the base command for the deck CLI.
var rootCmd = &cobra.Command{
	Use:   "deck",
	Short: "Inspect and validate delivery pipelines",
	Long: `Deck knows the stage, trigger and notification types a delivery pipeline
can use. It validates pipeline configurations against the validators each
type declares, browses the registered types, and shows running executions
through the API gateway.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		initLogger()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/deck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway", "", "API gateway URL (overrides gateway_url from the config file)")
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
