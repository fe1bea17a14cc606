package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"licenseguard/internal/domain/license"
	"licenseguard/internal/infrastructure/persistence/mappers"
	"licenseguard/internal/infrastructure/persistence/models"
	"licenseguard/internal/shared/db"
	apperrors "licenseguard/internal/shared/errors"
	"licenseguard/internal/shared/logger"
)

// LicenseRepositoryImpl implements the license.Repository interface
type LicenseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

// NewLicenseRepository creates a new license repository instance
func NewLicenseRepository(gdb *gorm.DB, log logger.Interface) license.Repository {
	return &LicenseRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewLicenseMapper(),
		logger: log,
	}
}

func (r *LicenseRepositoryImpl) Create(ctx context.Context, l *license.License) error {
	model := r.mapper.ToModel(l)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return fmt.Errorf("%w: %s", license.ErrDuplicateLicense, l.TenantID())
		}
		r.logger.Errorw("failed to create license", "tenant_id", l.TenantID(), "error", err)
		return fmt.Errorf("failed to create license: %w", err)
	}
	if err := l.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set license ID: %w", err)
	}

	r.logger.Infow("license created", "id", model.ID, "tenant_id", model.TenantID)
	return nil
}

func (r *LicenseRepositoryImpl) GetByTenantID(ctx context.Context, tenantID string) (*license.License, error) {
	var model models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForTenant(tenantID)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, license.ErrLicenseNotFound
		}
		r.logger.Errorw("failed to get license by tenant", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to get license: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// SetGraceUntil only fills an empty cache, so concurrent writers agree.
func (r *LicenseRepositoryImpl) SetGraceUntil(ctx context.Context, id uint, graceUntil time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.LicenseModel{}).
		Where("id = ? AND grace_until IS NULL", id).
		Update("grace_until", graceUntil.UTC())
	if result.Error != nil {
		r.logger.Errorw("failed to set grace_until", "id", id, "error", result.Error)
		return fmt.Errorf("failed to set grace_until: %w", result.Error)
	}
	return nil
}

func (r *LicenseRepositoryImpl) UpdateCheckin(ctx context.Context, id uint, at time.Time) error {
	at = at.UTC()
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.LicenseModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_checkin_at":   at,
			"last_validated_at": at,
			"validation_count":  gorm.Expr("validation_count + 1"),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update license checkin", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update license checkin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return license.ErrLicenseNotFound
	}
	return nil
}

func (r *LicenseRepositoryImpl) SetRegisteredFingerprint(ctx context.Context, id uint, fingerprint string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.LicenseModel{}).
		Where("id = ?", id).
		Update("registered_device_fingerprint", fingerprint)
	if result.Error != nil {
		r.logger.Errorw("failed to set registered fingerprint", "id", id, "error", result.Error)
		return fmt.Errorf("failed to set registered fingerprint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return license.ErrLicenseNotFound
	}
	return nil
}
