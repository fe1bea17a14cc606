package db

import (
	"gorm.io/gorm"
)

// ForTenant restricts a query to one tenant's rows.
func ForTenant(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// NotRevoked filters out device registrations that have been revoked.
//
// Example usage:
//
//	db.Model(&models.DeviceRegistrationModel{}).Scopes(db.ForTenant(id), db.NotRevoked()).First(&m)
func NotRevoked() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("revoked_at IS NULL")
	}
}

// NewestFirst orders rows by a timestamp column, most recent first, with the
// primary key as a tiebreaker.
func NewestFirst(column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " DESC").Order("id DESC")
	}
}
