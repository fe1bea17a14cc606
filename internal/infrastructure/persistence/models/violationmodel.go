package models

import (
	"time"

	"licenseguard/internal/shared/constants"
)

// LicenseViolationModel is the append-only persistence model for violations.
type LicenseViolationModel struct {
	ID                string    `gorm:"primarykey;size:32"`
	TenantID          string    `gorm:"not null;size:64;index:idx_violation_tenant_time,priority:1"`
	LicenseID         uint      `gorm:"not null;index"`
	ViolationType     string    `gorm:"not null;size:32"`
	Reason            string    `gorm:"size:255"`
	IPAddress         string    `gorm:"column:ip_address;size:45"`
	DeviceID          string    `gorm:"size:64"`
	DeviceFingerprint string    `gorm:"size:64"`
	UserAgent         string    `gorm:"size:512"`
	OccurredAt        time.Time `gorm:"not null;index:idx_violation_tenant_time,priority:2"`
}

// TableName specifies the table name for GORM
func (LicenseViolationModel) TableName() string {
	return constants.TableLicenseViolations
}
