package license

import (
	"fmt"
	"strings"
	"time"

	"licenseguard/internal/shared/biztime"
)

// License is the per-tenant license aggregate root. Rows are issued by the
// administrative surface; enforcement only reads them and writes the cached
// grace deadline, checkin timestamps and the legacy fingerprint.
type License struct {
	id                          uint
	tenantID                    string
	status                      Status
	expiresAt                   *time.Time
	gracePeriodDays             int
	graceUntil                  *time.Time
	allowedIP                   AllowedIP
	registeredDeviceFingerprint *string // legacy coarse binding, audit only
	maxDevices                  int
	lastCheckinAt               *time.Time
	lastValidatedAt             *time.Time
	validationCount             int64
	lastViolationAt             *time.Time
	violationCount              int64
	createdAt                   time.Time
	updatedAt                   time.Time
}

// NewLicense creates a new active license for a tenant.
func NewLicense(tenantID string, expiresAt *time.Time, gracePeriodDays int, allowedIP AllowedIP) (*License, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrTenantIDRequired
	}
	if gracePeriodDays < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGracePeriod, gracePeriodDays)
	}

	now := biztime.NowUTC()
	return &License{
		tenantID:        tenantID,
		status:          StatusActive,
		expiresAt:       expiresAt,
		gracePeriodDays: gracePeriodDays,
		allowedIP:       allowedIP,
		maxDevices:      1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Snapshot carries persisted license state into ReconstructLicense.
type Snapshot struct {
	ID                          uint
	TenantID                    string
	Status                      Status
	ExpiresAt                   *time.Time
	GracePeriodDays             int
	GraceUntil                  *time.Time
	AllowedIP                   *string
	RegisteredDeviceFingerprint *string
	MaxDevices                  int
	LastCheckinAt               *time.Time
	LastValidatedAt             *time.Time
	ValidationCount             int64
	LastViolationAt             *time.Time
	ViolationCount              int64
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// ReconstructLicense rebuilds a license from persistence. Unknown statuses
// are kept as-is so the access resolver can decide how to treat them.
func ReconstructLicense(s Snapshot) (*License, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("license ID cannot be zero")
	}
	if strings.TrimSpace(s.TenantID) == "" {
		return nil, ErrTenantIDRequired
	}

	graceDays := s.GracePeriodDays
	if graceDays < 0 {
		graceDays = DefaultGracePeriodDays
	}

	return &License{
		id:                          s.ID,
		tenantID:                    s.TenantID,
		status:                      s.Status,
		expiresAt:                   s.ExpiresAt,
		gracePeriodDays:             graceDays,
		graceUntil:                  s.GraceUntil,
		allowedIP:                   AllowedIPFromNullable(s.AllowedIP),
		registeredDeviceFingerprint: s.RegisteredDeviceFingerprint,
		maxDevices:                  s.MaxDevices,
		lastCheckinAt:               s.LastCheckinAt,
		lastValidatedAt:             s.LastValidatedAt,
		validationCount:             s.ValidationCount,
		lastViolationAt:             s.LastViolationAt,
		violationCount:              s.ViolationCount,
		createdAt:                   s.CreatedAt,
		updatedAt:                   s.UpdatedAt,
	}, nil
}

func (l *License) ID() uint                             { return l.id }
func (l *License) TenantID() string                     { return l.tenantID }
func (l *License) Status() Status                       { return l.status }
func (l *License) ExpiresAt() *time.Time                { return l.expiresAt }
func (l *License) GracePeriodDays() int                 { return l.gracePeriodDays }
func (l *License) GraceUntil() *time.Time               { return l.graceUntil }
func (l *License) AllowedIP() AllowedIP                 { return l.allowedIP }
func (l *License) RegisteredDeviceFingerprint() *string { return l.registeredDeviceFingerprint }
func (l *License) MaxDevices() int                      { return l.maxDevices }
func (l *License) LastCheckinAt() *time.Time            { return l.lastCheckinAt }
func (l *License) LastValidatedAt() *time.Time          { return l.lastValidatedAt }
func (l *License) ValidationCount() int64               { return l.validationCount }
func (l *License) LastViolationAt() *time.Time          { return l.lastViolationAt }
func (l *License) ViolationCount() int64                { return l.violationCount }
func (l *License) CreatedAt() time.Time                 { return l.createdAt }
func (l *License) UpdatedAt() time.Time                 { return l.updatedAt }

// SetID sets the license ID after persistence
func (l *License) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("license ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("license ID cannot be zero")
	}
	l.id = id
	return nil
}

// IsSuspended reports whether the license is administratively blocked.
func (l *License) IsSuspended() bool {
	return l.status == StatusSuspended
}

// Evaluate runs the pure grace and access-level functions against now.
func (l *License) Evaluate(now time.Time) (GraceEvaluation, AccessDecision) {
	grace := EvaluateGrace(l.expiresAt, l.gracePeriodDays, now)
	return grace, ResolveAccessLevel(l.status, grace)
}

// NeedsGraceUntil reports whether the cached grace deadline should be written:
// the license is in grace and nothing has been cached yet.
func (l *License) NeedsGraceUntil(grace GraceEvaluation) bool {
	return grace.InGrace && grace.GraceUntil != nil && l.graceUntil == nil
}

// MarkGraceUntil records the cached deadline locally after it was persisted.
func (l *License) MarkGraceUntil(t time.Time) {
	l.graceUntil = &t
}

// CheckinDue reports whether lastCheckinAt is stale by more than throttle.
func (l *License) CheckinDue(now time.Time, throttle time.Duration) bool {
	return biztime.OlderThan(l.lastCheckinAt, now, throttle)
}

// MarkCheckedIn mirrors a persisted checkin.
func (l *License) MarkCheckedIn(now time.Time) {
	l.lastCheckinAt = &now
	l.lastValidatedAt = &now
	l.validationCount++
}

// MarkFingerprintRegistered mirrors the bootstrap write of the legacy field.
func (l *License) MarkFingerprintRegistered(fingerprint string) {
	l.registeredDeviceFingerprint = &fingerprint
}
