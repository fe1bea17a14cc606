package license

import (
	"context"
	"time"
)

// Repository defines the persistence operations enforcement needs. Every
// write is a targeted column update; enforcement never rewrites a whole row.
type Repository interface {
	// Create inserts a license. Used by seeding and tests; issuance proper
	// belongs to the administrative surface.
	Create(ctx context.Context, l *License) error

	// GetByTenantID returns ErrLicenseNotFound when the tenant has no license.
	GetByTenantID(ctx context.Context, tenantID string) (*License, error)

	// SetGraceUntil writes the cached grace deadline only if it is still unset.
	SetGraceUntil(ctx context.Context, id uint, graceUntil time.Time) error

	// UpdateCheckin stamps lastCheckinAt/lastValidatedAt and bumps validationCount.
	UpdateCheckin(ctx context.Context, id uint, at time.Time) error

	// SetRegisteredFingerprint records the legacy fingerprint at bootstrap.
	SetRegisteredFingerprint(ctx context.Context, id uint, fingerprint string) error
}
