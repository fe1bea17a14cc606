// Package audit holds the append-only enforcement trail: violations and
// decision log entries.
package audit

import (
	"fmt"
	"time"
)

// ViolationType classifies a recorded enforcement violation.
type ViolationType string

const (
	ViolationExpired        ViolationType = "EXPIRED"
	ViolationSuspended      ViolationType = "SUSPENDED"
	ViolationDeviceMismatch ViolationType = "DEVICE_MISMATCH"
	ViolationIPMismatch     ViolationType = "IP_MISMATCH"
	ViolationRateLimited    ViolationType = "RATE_LIMITED"
)

func (v ViolationType) IsValid() bool {
	switch v {
	case ViolationExpired, ViolationSuspended, ViolationDeviceMismatch, ViolationIPMismatch, ViolationRateLimited:
		return true
	default:
		return false
	}
}

func (v ViolationType) String() string {
	return string(v)
}

// Violation is a write-once record of a denied request. It holds the full,
// unmasked request identity for investigation.
type Violation struct {
	ID                string
	TenantID          string
	LicenseID         uint
	Type              ViolationType
	Reason            string
	IPAddress         string
	DeviceID          string
	DeviceFingerprint string
	UserAgent         string
	OccurredAt        time.Time
}

// Validate checks the fields every violation must carry
func (v *Violation) Validate() error {
	if v.TenantID == "" {
		return fmt.Errorf("violation tenant ID is required")
	}
	if v.LicenseID == 0 {
		return fmt.Errorf("violation license ID is required")
	}
	if !v.Type.IsValid() {
		return fmt.Errorf("invalid violation type: %s", v.Type)
	}
	return nil
}
