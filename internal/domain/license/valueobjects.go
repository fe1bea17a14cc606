// Package license holds the per-tenant license aggregate and the pure
// decision functions that turn its state into an access level.
package license

// Status is the administrative state of a license.
type Status string

const (
	StatusActive         Status = "active"
	StatusSuspended      Status = "suspended"
	StatusExpired        Status = "expired"
	StatusPendingRenewal Status = "pending_renewal"
)

// IsValid checks if the status is one of the modelled states
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusExpired, StatusPendingRenewal:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// AccessLevel is what the tenant may do right now.
type AccessLevel string

const (
	AccessFull     AccessLevel = "FULL"
	AccessReadOnly AccessLevel = "READ_ONLY"
	AccessBlocked  AccessLevel = "BLOCKED"
)

func (a AccessLevel) String() string {
	return string(a)
}

// DefaultGracePeriodDays applies when a license row carries no explicit value.
const DefaultGracePeriodDays = 7
