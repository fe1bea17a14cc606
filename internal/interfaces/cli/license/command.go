// Package license provides operator commands for license records and the
// tenant's device slot.
package license

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"licenseguard/internal/application/enforcement/services"
	"licenseguard/internal/application/enforcement/usecases"
	domain "licenseguard/internal/domain/license"
	"licenseguard/internal/infrastructure/repository"
	"licenseguard/internal/interfaces/cli/cliutil"
)

var (
	env       string
	tenantID  string
	expiresAt string
	graceDays int
	allowedIP string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Inspect and manage tenant licenses",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID (required)")
	_ = cmd.MarkPersistentFlagRequired("tenant")

	cmd.AddCommand(
		newCreateCommand(),
		newStatusCommand(),
		newRevokeDeviceCommand(),
	)

	return cmd
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an active license for a tenant",
		RunE:  runCreate,
	}

	cmd.Flags().StringVar(&expiresAt, "expires", "", "Expiry as RFC 3339 or YYYY-MM-DD (UTC); empty never expires")
	cmd.Flags().IntVar(&graceDays, "grace-days", 7, "Read-only grace period after expiry, in days")
	cmd.Flags().StringVar(&allowedIP, "allowed-ip", "", "Bind the license to a single client IP")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the tenant's access level and binding state",
		RunE:  runStatus,
	}
}

func newRevokeDeviceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-device",
		Short: "Release the tenant's registered device",
		Long:  `Release the active device so the next owner sign-in registers a new one. Runs as a trusted operator and skips role checks.`,
		RunE:  runRevokeDevice,
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	expiry, err := parseExpiry(expiresAt)
	if err != nil {
		return err
	}

	lic, err := domain.NewLicense(tenantID, expiry, graceDays, domain.RestrictedTo(allowedIP))
	if err != nil {
		return err
	}

	_, log, db, cleanup, err := cliutil.InitWithDatabase(cliutil.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer cleanup()

	if err := repository.NewLicenseRepository(db, log).Create(cmd.Context(), lic); err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "license created for tenant %s\n", lic.TenantID())
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, log, db, cleanup, err := cliutil.InitWithDatabase(cliutil.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer cleanup()

	uc := usecases.NewGetLicenseStatusUseCase(
		repository.NewLicenseRepository(db, log),
		repository.NewDeviceRepository(db, log),
		log,
	)
	status, err := uc.Execute(cmd.Context(), usecases.GetLicenseStatusQuery{TenantID: tenantID})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

func runRevokeDevice(cmd *cobra.Command, args []string) error {
	_, log, db, cleanup, err := cliutil.InitWithDatabase(cliutil.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer cleanup()

	auditLogger := services.NewAuditLogger(
		repository.NewViolationRepository(db, log),
		repository.NewAuditLogRepository(db, log),
		log,
	)
	uc := usecases.NewRevokeDeviceUseCase(repository.NewDeviceRepository(db, log), nil, auditLogger, log)

	if err := uc.Execute(cmd.Context(), usecases.RevokeDeviceCommand{
		TenantID:          tenantID,
		SkipAuthorization: true,
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "device released for tenant %s\n", tenantID)
	return nil
}

func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --expires %q: use RFC 3339 or YYYY-MM-DD", raw)
}
