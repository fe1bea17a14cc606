package license

import "errors"

var (
	// ErrLicenseNotFound is returned when a tenant has no license row
	ErrLicenseNotFound = errors.New("license not found")

	// ErrTenantIDRequired is returned when tenant ID is missing
	ErrTenantIDRequired = errors.New("tenant ID is required")

	// ErrInvalidGracePeriod is returned for negative grace periods
	ErrInvalidGracePeriod = errors.New("invalid grace period")

	// ErrDuplicateLicense is returned when the tenant already has a license
	ErrDuplicateLicense = errors.New("license already exists for tenant")
)
