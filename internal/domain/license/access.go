package license

import "fmt"

// AccessDecision pairs a level with the reason shown to the tenant.
type AccessDecision struct {
	Level  AccessLevel
	Reason string
}

// ResolveAccessLevel maps license state to an access level. Suspension always
// wins. Every known non-active state degrades to read-only; only statuses the
// model does not know fall back to full access.
func ResolveAccessLevel(status Status, grace GraceEvaluation) AccessDecision {
	switch status {
	case StatusSuspended:
		return AccessDecision{Level: AccessBlocked, Reason: "License is suspended"}
	case StatusExpired:
		return AccessDecision{Level: AccessReadOnly, Reason: expiredReason(grace)}
	case StatusPendingRenewal:
		return AccessDecision{Level: AccessReadOnly, Reason: "License renewal is pending"}
	case StatusActive:
		if grace.Expired {
			return AccessDecision{Level: AccessReadOnly, Reason: expiredReason(grace)}
		}
		return AccessDecision{Level: AccessFull, Reason: "License is active"}
	default:
		return AccessDecision{Level: AccessFull, Reason: fmt.Sprintf("Unrecognized license status %q", status)}
	}
}

func expiredReason(grace GraceEvaluation) string {
	if grace.InGrace && grace.DaysInGrace != nil {
		if *grace.DaysInGrace == 1 {
			return "License expired; 1 day of grace remaining"
		}
		return fmt.Sprintf("License expired; %d days of grace remaining", *grace.DaysInGrace)
	}
	return "License expired; grace period has ended"
}
