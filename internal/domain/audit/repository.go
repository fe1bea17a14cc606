package audit

import (
	"context"
	"time"
)

// ViolationRepository appends violations. Rows are never updated.
type ViolationRepository interface {
	Append(ctx context.Context, v *Violation) error
	CountSince(ctx context.Context, tenantID string, since time.Time) (int64, error)
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*Violation, error)
}

// EntryRepository appends audit log entries. Rows are never updated.
type EntryRepository interface {
	Append(ctx context.Context, e *Entry) error
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*Entry, error)
}
