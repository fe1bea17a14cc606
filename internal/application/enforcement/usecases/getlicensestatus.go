package usecases

import (
	"context"
	"errors"
	"fmt"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/domain/device"
	"licenseguard/internal/domain/license"
	"licenseguard/internal/shared/biztime"
	apperrors "licenseguard/internal/shared/errors"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

type GetLicenseStatusQuery struct {
	TenantID        string
	CurrentDeviceID string
}

// GetLicenseStatusUseCase reports the tenant's license state with masked
// binding information. It has no side effects.
type GetLicenseStatusUseCase struct {
	licenses license.Repository
	devices  device.Repository
	now      biztime.Clock
	logger   logger.Interface
}

func NewGetLicenseStatusUseCase(licenses license.Repository, devices device.Repository, logger logger.Interface) *GetLicenseStatusUseCase {
	return &GetLicenseStatusUseCase{
		licenses: licenses,
		devices:  devices,
		now:      biztime.NowUTC,
		logger:   logger,
	}
}

func (uc *GetLicenseStatusUseCase) Execute(ctx context.Context, query GetLicenseStatusQuery) (*dto.LicenseStatusDTO, error) {
	lic, err := uc.licenses.GetByTenantID(ctx, query.TenantID)
	if errors.Is(err, license.ErrLicenseNotFound) {
		return nil, apperrors.NewNotFoundError("License not found")
	}
	if err != nil {
		uc.logger.Errorw("failed to load license", "error", err, "tenant_id", query.TenantID)
		return nil, fmt.Errorf("failed to load license: %w", err)
	}

	grace, access := lic.Evaluate(uc.now())
	result := &dto.LicenseStatusDTO{
		TenantID:      lic.TenantID(),
		Status:        lic.Status().String(),
		AccessLevel:   access.Level,
		Reason:        access.Reason,
		ExpiresAt:     lic.ExpiresAt(),
		Grace:         dto.NewGraceInfo(grace),
		IPRestricted:  lic.AllowedIP().IsRestricted(),
		LastCheckinAt: lic.LastCheckinAt(),
	}
	if ip, ok := lic.AllowedIP().IP(); ok {
		result.AllowedIP = utils.MaskIP(ip)
	}

	active, err := uc.devices.FindActive(ctx, query.TenantID)
	switch {
	case err == nil:
		result.Device = dto.ToDeviceDTO(active, query.CurrentDeviceID)
	case errors.Is(err, device.ErrNoActiveDevice):
	default:
		uc.logger.Errorw("failed to load active device", "error", err, "tenant_id", query.TenantID)
		return nil, fmt.Errorf("failed to load active device: %w", err)
	}

	return result, nil
}
