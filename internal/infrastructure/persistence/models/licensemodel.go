package models

import (
	"time"

	"licenseguard/internal/shared/constants"
)

// LicenseModel is the persistence model for licenses, one row per tenant.
type LicenseModel struct {
	ID                          uint       `gorm:"primarykey"`
	TenantID                    string     `gorm:"not null;size:64;uniqueIndex:uk_licenses_tenant"`
	Status                      string     `gorm:"not null;size:20;default:active;index:idx_licenses_status"`
	ExpiresAt                   *time.Time `gorm:"index:idx_licenses_expires"`
	GracePeriodDays             int        `gorm:"not null;default:7"`
	GraceUntil                  *time.Time
	AllowedIP                   *string `gorm:"column:allowed_ip;size:45"`
	RegisteredDeviceFingerprint *string `gorm:"size:64"`
	MaxDevices                  int     `gorm:"not null;default:1"`
	LastCheckinAt               *time.Time
	LastValidatedAt             *time.Time
	ValidationCount             int64 `gorm:"not null;default:0"`
	LastViolationAt             *time.Time
	ViolationCount              int64 `gorm:"not null;default:0"`
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// TableName specifies the table name for GORM
func (LicenseModel) TableName() string {
	return constants.TableLicenses
}
