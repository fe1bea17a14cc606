package services

import (
	"context"
	"time"

	"licenseguard/internal/domain/audit"
	"licenseguard/internal/shared/logger"
)

// AuditLogger records violations and decision entries. Writes are
// best-effort: failures go to the operational log and never change a
// decision. Writes are detached from request cancellation.
type AuditLogger struct {
	violations audit.ViolationRepository
	entries    audit.EntryRepository
	logger     logger.Interface
}

func NewAuditLogger(violations audit.ViolationRepository, entries audit.EntryRepository, logger logger.Interface) *AuditLogger {
	return &AuditLogger{
		violations: violations,
		entries:    entries,
		logger:     logger,
	}
}

// RecordViolation appends v and reports whether it was stored.
func (a *AuditLogger) RecordViolation(ctx context.Context, v *audit.Violation) bool {
	if v.OccurredAt.IsZero() {
		v.OccurredAt = time.Now().UTC()
	}
	if err := a.violations.Append(context.WithoutCancel(ctx), v); err != nil {
		a.logger.Errorw("failed to record license violation",
			"error", err,
			"tenant_id", v.TenantID,
			"violation_type", v.Type,
		)
		return false
	}
	return true
}

// RecordEntry appends e and reports whether it was stored.
func (a *AuditLogger) RecordEntry(ctx context.Context, e *audit.Entry) bool {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := a.entries.Append(context.WithoutCancel(ctx), e); err != nil {
		a.logger.Errorw("failed to record license audit entry",
			"error", err,
			"tenant_id", e.TenantID,
			"action", e.Action,
		)
		return false
	}
	return true
}
