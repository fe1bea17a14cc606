package usecases

import (
	"context"
	"errors"
	"fmt"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/domain/device"
	apperrors "licenseguard/internal/shared/errors"
	"licenseguard/internal/shared/logger"
)

type GetActiveDeviceUseCase struct {
	devices device.Repository
	logger  logger.Interface
}

func NewGetActiveDeviceUseCase(devices device.Repository, logger logger.Interface) *GetActiveDeviceUseCase {
	return &GetActiveDeviceUseCase{devices: devices, logger: logger}
}

func (uc *GetActiveDeviceUseCase) Execute(ctx context.Context, tenantID, currentDeviceID string) (*dto.DeviceDTO, error) {
	active, err := uc.devices.FindActive(ctx, tenantID)
	if errors.Is(err, device.ErrNoActiveDevice) {
		return nil, apperrors.NewNotFoundError("No device is registered for this license")
	}
	if err != nil {
		uc.logger.Errorw("failed to load active device", "error", err, "tenant_id", tenantID)
		return nil, fmt.Errorf("failed to load active device: %w", err)
	}
	return dto.ToDeviceDTO(active, currentDeviceID), nil
}
