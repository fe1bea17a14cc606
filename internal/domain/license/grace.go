package license

import (
	"time"

	"licenseguard/internal/shared/biztime"
)

// GraceEvaluation is the outcome of EvaluateGrace. GraceUntil is nil only when
// the license never expires; DaysInGrace is nil unless InGrace.
type GraceEvaluation struct {
	Expired       bool
	InGrace       bool
	GraceUntil    *time.Time
	DaysInGrace   *int
	DaysRemaining int
}

// EvaluateGrace computes the grace window for a license expiring at expiresAt.
// It is pure; persisting GraceUntil is the caller's concern.
func EvaluateGrace(expiresAt *time.Time, gracePeriodDays int, now time.Time) GraceEvaluation {
	if expiresAt == nil {
		return GraceEvaluation{}
	}
	if gracePeriodDays < 0 {
		gracePeriodDays = 0
	}

	graceUntil := biztime.AddDays(*expiresAt, gracePeriodDays)
	eval := GraceEvaluation{
		Expired:    now.After(*expiresAt),
		GraceUntil: &graceUntil,
	}
	eval.InGrace = eval.Expired && !now.After(graceUntil)

	switch {
	case !eval.Expired:
		eval.DaysRemaining = biztime.CeilDays(expiresAt.Sub(now))
	case eval.InGrace:
		days := biztime.CeilDays(graceUntil.Sub(now))
		eval.DaysInGrace = &days
		eval.DaysRemaining = days
	}
	return eval
}
