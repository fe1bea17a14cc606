// Package token mints access tokens for local development and smoke tests.
// Production tokens come from the host application's identity provider.
package token

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"licenseguard/internal/infrastructure/auth"
	"licenseguard/internal/interfaces/cli/cliutil"
	"licenseguard/internal/shared/authorization"
)

var (
	env      string
	userID   string
	tenantID string
	role     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for development",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID (required)")
	cmd.Flags().StringVar(&role, "role", string(authorization.RoleOwner), "User role")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	environment := cliutil.ResolveEnv(env)
	if cliutil.MapEnvToGinMode(environment) == "release" {
		return fmt.Errorf("token issuing is disabled in %s", environment)
	}

	cfg, _, err := cliutil.Init(environment)
	if err != nil {
		return err
	}

	parsed := authorization.UserRole(strings.ToLower(strings.TrimSpace(role)))
	if !parsed.IsValid() {
		return fmt.Errorf("unknown role %q", role)
	}

	svc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	token, err := svc.GenerateAccess(userID, tenantID, parsed)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
