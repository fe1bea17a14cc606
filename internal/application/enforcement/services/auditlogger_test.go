package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"licenseguard/internal/domain/audit"
	"licenseguard/internal/shared/logger"
)

type mockViolationRepo struct {
	mock.Mock
}

func (m *mockViolationRepo) Append(ctx context.Context, v *audit.Violation) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockViolationRepo) CountSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockViolationRepo) ListRecent(ctx context.Context, tenantID string, limit int) ([]*audit.Violation, error) {
	args := m.Called(ctx, tenantID, limit)
	return args.Get(0).([]*audit.Violation), args.Error(1)
}

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) Append(ctx context.Context, e *audit.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEntryRepo) ListRecent(ctx context.Context, tenantID string, limit int) ([]*audit.Entry, error) {
	args := m.Called(ctx, tenantID, limit)
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

func TestAuditLogger_SwallowsFailures(t *testing.T) {
	violations := new(mockViolationRepo)
	entries := new(mockEntryRepo)
	violations.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))
	entries.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	a := NewAuditLogger(violations, entries, logger.NewNop())

	assert.False(t, a.RecordViolation(context.Background(), &audit.Violation{TenantID: "t", LicenseID: 1, Type: audit.ViolationIPMismatch}))
	assert.False(t, a.RecordEntry(context.Background(), &audit.Entry{TenantID: "t", Action: audit.ActionDenied}))

	violations.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestAuditLogger_StampsTimeAndIgnoresCancellation(t *testing.T) {
	violations := new(mockViolationRepo)
	entries := new(mockEntryRepo)
	entries.On("Append", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.MatchedBy(func(e *audit.Entry) bool {
		return !e.OccurredAt.IsZero()
	})).Return(nil)

	a := NewAuditLogger(violations, entries, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, a.RecordEntry(ctx, &audit.Entry{TenantID: "t", Action: audit.ActionAllowed}))
	entries.AssertExpectations(t)
}
