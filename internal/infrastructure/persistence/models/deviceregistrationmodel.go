package models

import (
	"time"

	"licenseguard/internal/shared/constants"
)

// ActiveSlotValue marks the one non-revoked registration of a tenant.
const ActiveSlotValue = "active"

// DeviceRegistrationModel is the persistence model for device registrations.
// ActiveSlot is "active" while the row is not revoked and NULL afterwards; the
// unique index over (tenant_id, active_slot) therefore admits any number of
// revoked rows but only one active row per tenant.
type DeviceRegistrationModel struct {
	ID           uint      `gorm:"primarykey"`
	TenantID     string    `gorm:"not null;size:64;uniqueIndex:uk_device_active_slot,priority:1;index:idx_device_tenant_registered,priority:1"`
	ActiveSlot   *string   `gorm:"size:8;uniqueIndex:uk_device_active_slot,priority:2"`
	UserID       string    `gorm:"not null;size:64"`
	DeviceID     string    `gorm:"not null;size:64;index:idx_device_device_id"`
	DeviceType   string    `gorm:"not null;size:20;default:unknown"`
	DeviceLabel  string    `gorm:"size:120"`
	Fingerprint  string    `gorm:"size:64"`
	RegisteredIP string    `gorm:"column:registered_ip;size:45"`
	RegisteredAt time.Time `gorm:"not null;index:idx_device_tenant_registered,priority:2"`
	LastSeenAt   time.Time `gorm:"not null"`
	RevokedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (DeviceRegistrationModel) TableName() string {
	return constants.TableDeviceRegistrations
}
