package models

import (
	"time"

	"gorm.io/datatypes"

	"licenseguard/internal/shared/constants"
)

// LicenseAuditLogModel is the append-only persistence model for audit entries.
type LicenseAuditLogModel struct {
	ID          string  `gorm:"primarykey;size:32"`
	TenantID    string  `gorm:"not null;size:64;index:idx_audit_tenant_time,priority:1"`
	ActorUserID *string `gorm:"size:64"`
	Action      string  `gorm:"not null;size:64;index"`
	Meta        datatypes.JSON
	OccurredAt  time.Time `gorm:"not null;index:idx_audit_tenant_time,priority:2"`
}

// TableName specifies the table name for GORM
func (LicenseAuditLogModel) TableName() string {
	return constants.TableLicenseAuditLogs
}
