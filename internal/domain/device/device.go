// Package device models the single bound installation per tenant.
package device

import (
	"fmt"
	"strings"
	"time"

	"licenseguard/internal/shared/biztime"
)

// Type is a coarse classification derived from the user agent at registration.
type Type string

const (
	TypeDesktop Type = "desktop"
	TypeMobile  Type = "mobile"
	TypeTablet  Type = "tablet"
	TypeUnknown Type = "unknown"
)

// Registration binds one device identifier to a tenant. Only lastSeenAt and
// revokedAt change after creation.
type Registration struct {
	id           uint
	tenantID     string
	userID       string
	deviceID     string
	deviceType   Type
	deviceLabel  string
	fingerprint  string
	registeredIP string
	registeredAt time.Time
	lastSeenAt   time.Time
	revokedAt    *time.Time
}

// NewRegistration creates the bootstrap registration for a tenant.
func NewRegistration(tenantID, userID, deviceID string, deviceType Type, label, fingerprint, ip string, at time.Time) (*Registration, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if strings.TrimSpace(deviceID) == "" {
		return nil, ErrDeviceIDRequired
	}
	if deviceType == "" {
		deviceType = TypeUnknown
	}
	at = at.UTC()
	return &Registration{
		tenantID:     tenantID,
		userID:       userID,
		deviceID:     deviceID,
		deviceType:   deviceType,
		deviceLabel:  label,
		fingerprint:  fingerprint,
		registeredIP: ip,
		registeredAt: at,
		lastSeenAt:   at,
	}, nil
}

// ReconstructRegistration rebuilds a registration from persistence
func ReconstructRegistration(
	id uint,
	tenantID, userID, deviceID string,
	deviceType Type,
	label, fingerprint, registeredIP string,
	registeredAt, lastSeenAt time.Time,
	revokedAt *time.Time,
) (*Registration, error) {
	if id == 0 {
		return nil, fmt.Errorf("device registration ID cannot be zero")
	}
	if deviceID == "" {
		return nil, ErrDeviceIDRequired
	}
	return &Registration{
		id:           id,
		tenantID:     tenantID,
		userID:       userID,
		deviceID:     deviceID,
		deviceType:   deviceType,
		deviceLabel:  label,
		fingerprint:  fingerprint,
		registeredIP: registeredIP,
		registeredAt: registeredAt,
		lastSeenAt:   lastSeenAt,
		revokedAt:    revokedAt,
	}, nil
}

func (r *Registration) ID() uint                { return r.id }
func (r *Registration) TenantID() string        { return r.tenantID }
func (r *Registration) UserID() string          { return r.userID }
func (r *Registration) DeviceID() string        { return r.deviceID }
func (r *Registration) DeviceType() Type        { return r.deviceType }
func (r *Registration) DeviceLabel() string     { return r.deviceLabel }
func (r *Registration) Fingerprint() string     { return r.fingerprint }
func (r *Registration) RegisteredIP() string    { return r.registeredIP }
func (r *Registration) RegisteredAt() time.Time { return r.registeredAt }
func (r *Registration) LastSeenAt() time.Time   { return r.lastSeenAt }
func (r *Registration) RevokedAt() *time.Time   { return r.revokedAt }

func (r *Registration) SetID(id uint) {
	r.id = id
}

// IsActive reports whether the registration has not been revoked.
func (r *Registration) IsActive() bool {
	return r.revokedAt == nil
}

// Matches reports whether deviceID is the bound identifier.
func (r *Registration) Matches(deviceID string) bool {
	return deviceID != "" && strings.EqualFold(r.deviceID, deviceID)
}

// SeenDue reports whether lastSeenAt is stale by more than throttle.
func (r *Registration) SeenDue(now time.Time, throttle time.Duration) bool {
	return biztime.OlderThan(&r.lastSeenAt, now, throttle)
}

// DisplayLabel is what users see in mismatch messages.
func (r *Registration) DisplayLabel() string {
	if r.deviceLabel != "" {
		return r.deviceLabel
	}
	return "another device"
}
