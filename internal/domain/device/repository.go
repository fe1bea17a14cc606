package device

import (
	"context"
	"time"
)

// Repository persists device registrations. CreateActive is the only path
// that creates an active row and is serialized by a uniqueness constraint.
type Repository interface {
	// FindActive returns the tenant's active registration or ErrNoActiveDevice.
	FindActive(ctx context.Context, tenantID string) (*Registration, error)

	// CreateActive inserts r as the tenant's active device. It returns
	// ErrActiveDeviceExists when another insert won.
	CreateActive(ctx context.Context, r *Registration) error

	// TouchLastSeen stamps lastSeenAt on a registration.
	TouchLastSeen(ctx context.Context, id uint, at time.Time) error

	// Revoke frees the tenant's slot so a new device may bootstrap.
	Revoke(ctx context.Context, tenantID string, at time.Time) error

	// ListByTenant returns the full history, newest first.
	ListByTenant(ctx context.Context, tenantID string) ([]*Registration, error)
}
