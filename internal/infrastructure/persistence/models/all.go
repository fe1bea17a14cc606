package models

// All lists every model managed by auto-migration in development and tests.
func All() []any {
	return []any{
		&LicenseModel{},
		&DeviceRegistrationModel{},
		&LicenseViolationModel{},
		&LicenseAuditLogModel{},
	}
}
