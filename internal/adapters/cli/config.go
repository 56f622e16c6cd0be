package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cardfarm-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the daemon configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (CF_* prefix)
2. Config file (config.yaml)
3. Default values

Example:
  cardfarm config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Println("Card Farm Configuration")
			fmt.Println("=======================")
			fmt.Printf("Database:      %s\n", cfg.Database.Type)
			fmt.Printf("Community URL: %s\n", cfg.Farm.CommunityURL)
			fmt.Printf("Store URL:     %s\n", cfg.Farm.StoreURL)
			fmt.Printf("Refresh every: %s\n", cfg.Farm.RefreshInterval)
			fmt.Printf("Admin API:     %s\n", cfg.HTTP.Addr)
			fmt.Printf("PID file:      %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("Logging:       %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
			fmt.Printf("Admins:        %d\n", len(cfg.Admins))

			fmt.Printf("\nAccounts (%d enabled of %d):\n", len(cfg.EnabledAccounts()), len(cfg.Accounts))
			for _, a := range cfg.Accounts {
				state := "disabled"
				if a.Enabled {
					state = "enabled"
				}
				fmt.Printf("  %-20s %s  idle=%t trades=%t\n", a.Name, state, a.Idle, a.Trades)
			}
			return nil
		},
	}
}
