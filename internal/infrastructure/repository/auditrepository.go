package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"licenseguard/internal/domain/audit"
	"licenseguard/internal/infrastructure/persistence/mappers"
	"licenseguard/internal/infrastructure/persistence/models"
	"licenseguard/internal/shared/db"
	"licenseguard/internal/shared/id"
	"licenseguard/internal/shared/logger"
)

const maxListLimit = 200

// ViolationRepositoryImpl implements the audit.ViolationRepository interface
type ViolationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AuditMapper
	logger logger.Interface
}

func NewViolationRepository(gdb *gorm.DB, log logger.Interface) audit.ViolationRepository {
	return &ViolationRepositoryImpl{db: gdb, mapper: mappers.NewAuditMapper(), logger: log}
}

// Append assigns a ULID when the violation has no ID yet.
func (r *ViolationRepositoryImpl) Append(ctx context.Context, v *audit.Violation) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if v.ID == "" {
		v.ID = id.NewPrefixed(id.PrefixViolation, v.OccurredAt)
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.ViolationToModel(v)).Error; err != nil {
		return fmt.Errorf("failed to append violation: %w", err)
	}
	return nil
}

func (r *ViolationRepositoryImpl) CountSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.LicenseViolationModel{}).
		Scopes(db.ForTenant(tenantID)).
		Where("occurred_at >= ?", since.UTC()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count violations: %w", err)
	}
	return count, nil
}

func (r *ViolationRepositoryImpl) ListRecent(ctx context.Context, tenantID string, limit int) ([]*audit.Violation, error) {
	var list []models.LicenseViolationModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForTenant(tenantID), db.NewestFirst("occurred_at")).
		Limit(clampLimit(limit)).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	out := make([]*audit.Violation, 0, len(list))
	for i := range list {
		out = append(out, r.mapper.ViolationToEntity(&list[i]))
	}
	return out, nil
}

// AuditLogRepositoryImpl implements the audit.EntryRepository interface
type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AuditMapper
	logger logger.Interface
}

func NewAuditLogRepository(gdb *gorm.DB, log logger.Interface) audit.EntryRepository {
	return &AuditLogRepositoryImpl{db: gdb, mapper: mappers.NewAuditMapper(), logger: log}
}

func (r *AuditLogRepositoryImpl) Append(ctx context.Context, e *audit.Entry) error {
	if e.TenantID == "" {
		return fmt.Errorf("audit entry tenant ID is required")
	}
	if e.ID == "" {
		e.ID = id.NewPrefixed(id.PrefixAudit, e.OccurredAt)
	}
	model, err := r.mapper.EntryToModel(e)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *AuditLogRepositoryImpl) ListRecent(ctx context.Context, tenantID string, limit int) ([]*audit.Entry, error) {
	var list []models.LicenseAuditLogModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForTenant(tenantID), db.NewestFirst("occurred_at")).
		Limit(clampLimit(limit)).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	out := make([]*audit.Entry, 0, len(list))
	for i := range list {
		e, err := r.mapper.EntryToEntity(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
