package handlers

import (
	"context"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/application/enforcement/usecases"
)

// Use case interfaces for LicenseHandler

type getLicenseStatusUseCase interface {
	Execute(ctx context.Context, query usecases.GetLicenseStatusQuery) (*dto.LicenseStatusDTO, error)
}

type getActiveDeviceUseCase interface {
	Execute(ctx context.Context, tenantID, currentDeviceID string) (*dto.DeviceDTO, error)
}

type revokeDeviceUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeDeviceCommand) error
}
