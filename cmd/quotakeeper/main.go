package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quotakeeper/quotakeeper/internal/interfaces/cli/migrate"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/cli/server"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quotakeeper",
		Short: "Quotakeeper - usage quotas and payment entitlement sync",
		Long:  `Quotakeeper tracks per-caller usage windows and reconciles payment entitlements across regional payment authorities.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
