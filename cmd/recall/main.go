// Package main is the entry point for the recall CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "recall",
		Short:        "Recall — flip through your images and test your memory",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executePlay(configFlag(cmd))
		},
	}
	root.PersistentFlags().String("config", "", "path to recall.toml (default: search upward from the working directory)")

	root.AddCommand(
		playCmd(),
		addCmd(),
		listCmd(),
		clearCmd(),
		statsCmd(),
		initCmd(),
	)

	return root
}

// configFlag returns the --config value, inherited from the root.
func configFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
