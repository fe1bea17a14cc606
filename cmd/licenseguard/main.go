package main

import (
	"os"

	"github.com/spf13/cobra"

	"licenseguard/internal/interfaces/cli/license"
	"licenseguard/internal/interfaces/cli/migrate"
	"licenseguard/internal/interfaces/cli/server"
	"licenseguard/internal/interfaces/cli/token"
)

// @title licenseguard API
// @version 1.0
// @description License enforcement for multi-tenant applications: device binding, IP binding, grace periods and read-only access.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:   "licenseguard",
		Short: "licenseguard - license enforcement service",
		Long:  `licenseguard enforces per-tenant licenses with device and IP binding, grace periods and read-only access, with server, migration and operator commands.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		license.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
