package http

import (
	"gorm.io/gorm"

	"licenseguard/internal/domain/audit"
	"licenseguard/internal/domain/device"
	"licenseguard/internal/domain/license"
	"licenseguard/internal/infrastructure/repository"
	"licenseguard/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	licenseRepo   license.Repository
	deviceRepo    device.Repository
	violationRepo audit.ViolationRepository
	auditLogRepo  audit.EntryRepository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		licenseRepo:   repository.NewLicenseRepository(db, log),
		deviceRepo:    repository.NewDeviceRepository(db, log),
		violationRepo: repository.NewViolationRepository(db, log),
		auditLogRepo:  repository.NewAuditLogRepository(db, log),
	}
}
