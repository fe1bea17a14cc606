package audit

import "time"

// Action tags a decision log entry.
type Action string

const (
	ActionAllowed           Action = "license.allowed"
	ActionAllowedReadOnly   Action = "license.allowed_read_only"
	ActionDenied            Action = "license.denied"
	ActionRateLimited       Action = "license.rate_limited"
	ActionDeviceBootstrap   Action = "device.bootstrap"
	ActionDeviceRevoked     Action = "device.revoked"
	ActionEnforcementFailed Action = "license.enforcement_error"
)

// Entry is one line of the license audit log. ActorUserID is nil for
// system-originated events.
type Entry struct {
	ID          string
	TenantID    string
	ActorUserID *string
	Action      Action
	Meta        map[string]any
	OccurredAt  time.Time
}
