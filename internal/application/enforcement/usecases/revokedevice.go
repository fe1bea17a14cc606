package usecases

import (
	"context"
	"errors"
	"fmt"

	"licenseguard/internal/application/enforcement/services"
	"licenseguard/internal/domain/audit"
	"licenseguard/internal/domain/device"
	"licenseguard/internal/shared/authorization"
	"licenseguard/internal/shared/biztime"
	apperrors "licenseguard/internal/shared/errors"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

// RevokeAuthorizer decides which roles may release a tenant's device.
type RevokeAuthorizer interface {
	CanRevoke(ctx context.Context, role authorization.UserRole) (bool, error)
}

type RevokeDeviceCommand struct {
	TenantID string
	// ActorUserID is empty for operator actions from the CLI.
	ActorUserID string
	ActorRole   authorization.UserRole
	// SkipAuthorization is set by trusted operator tooling.
	SkipAuthorization bool
}

// RevokeDeviceUseCase frees the tenant's device slot so the next owner
// sign-in bootstraps a new device.
type RevokeDeviceUseCase struct {
	devices    device.Repository
	authorizer RevokeAuthorizer
	audit      *services.AuditLogger
	now        biztime.Clock
	logger     logger.Interface
}

func NewRevokeDeviceUseCase(
	devices device.Repository,
	authorizer RevokeAuthorizer,
	auditLogger *services.AuditLogger,
	logger logger.Interface,
) *RevokeDeviceUseCase {
	return &RevokeDeviceUseCase{
		devices:    devices,
		authorizer: authorizer,
		audit:      auditLogger,
		now:        biztime.NowUTC,
		logger:     logger,
	}
}

func (uc *RevokeDeviceUseCase) Execute(ctx context.Context, cmd RevokeDeviceCommand) error {
	if cmd.TenantID == "" {
		return apperrors.NewValidationError("tenant_id is required")
	}

	if !cmd.SkipAuthorization {
		allowed, err := uc.authorizer.CanRevoke(ctx, cmd.ActorRole)
		if err != nil {
			return fmt.Errorf("failed to authorize device revoke: %w", err)
		}
		if !allowed {
			return apperrors.NewForbiddenError("Only the account owner can release the registered device")
		}
	}

	active, err := uc.devices.FindActive(ctx, cmd.TenantID)
	if errors.Is(err, device.ErrNoActiveDevice) {
		return apperrors.NewNotFoundError("No device is registered for this license")
	}
	if err != nil {
		return fmt.Errorf("failed to load active device: %w", err)
	}

	now := uc.now()
	if err := uc.devices.Revoke(ctx, cmd.TenantID, now); err != nil {
		if errors.Is(err, device.ErrNoActiveDevice) {
			return apperrors.NewNotFoundError("No device is registered for this license")
		}
		uc.logger.Errorw("failed to revoke device", "error", err, "tenant_id", cmd.TenantID)
		return fmt.Errorf("failed to revoke device: %w", err)
	}

	entry := &audit.Entry{
		TenantID: cmd.TenantID,
		Action:   audit.ActionDeviceRevoked,
		Meta: map[string]any{
			"device_id":    utils.MaskDeviceID(active.DeviceID()),
			"device_label": active.DisplayLabel(),
		},
		OccurredAt: now,
	}
	if cmd.ActorUserID != "" {
		actor := cmd.ActorUserID
		entry.ActorUserID = &actor
	}
	uc.audit.RecordEntry(ctx, entry)

	uc.logger.Infow("device revoked", "tenant_id", cmd.TenantID, "actor_user_id", cmd.ActorUserID)
	return nil
}
