package dto

import (
	"licenseguard/internal/domain/device"
	"licenseguard/internal/shared/utils"
)

// ToDeviceDTO masks the device identifier. currentDeviceID marks whether the
// caller is on this device.
func ToDeviceDTO(r *device.Registration, currentDeviceID string) *DeviceDTO {
	if r == nil {
		return nil
	}
	return &DeviceDTO{
		DeviceID:     utils.MaskDeviceID(r.DeviceID()),
		Label:        r.DisplayLabel(),
		Type:         string(r.DeviceType()),
		RegisteredAt: r.RegisteredAt(),
		LastSeenAt:   r.LastSeenAt(),
		IsCurrent:    r.Matches(currentDeviceID),
	}
}
