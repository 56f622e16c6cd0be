// Package cli wires the daemon's command-line surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	forceStart bool
)

// NewRootCommand creates the root command for the daemon CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cardfarm",
		Short: "Card farm daemon - idle trading-card drops across a fleet of accounts",
		Long: `Card farm daemon manages a fleet of accounts, scrapes their badge pages
and idles whichever title still has card drops remaining.

Examples:
  cardfarm run
  cardfarm run --force
  cardfarm config show
  cardfarm version`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/cardfarm)")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
