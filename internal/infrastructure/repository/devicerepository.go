package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"licenseguard/internal/domain/device"
	"licenseguard/internal/infrastructure/persistence/mappers"
	"licenseguard/internal/infrastructure/persistence/models"
	"licenseguard/internal/shared/db"
	apperrors "licenseguard/internal/shared/errors"
	"licenseguard/internal/shared/logger"
)

// DeviceRepositoryImpl implements the device.Repository interface
type DeviceRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.DeviceMapper
	logger logger.Interface
}

// NewDeviceRepository creates a new device registration repository instance
func NewDeviceRepository(gdb *gorm.DB, log logger.Interface) device.Repository {
	return &DeviceRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewDeviceMapper(),
		logger: log,
	}
}

func (r *DeviceRepositoryImpl) FindActive(ctx context.Context, tenantID string) (*device.Registration, error) {
	var model models.DeviceRegistrationModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForTenant(tenantID), db.NotRevoked(), db.NewestFirst("registered_at")).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, device.ErrNoActiveDevice
		}
		r.logger.Errorw("failed to find active device", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to find active device: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// CreateActive is a conditional insert: the unique (tenant_id, active_slot)
// index rejects a second active row, and that rejection is reported as
// device.ErrActiveDeviceExists.
func (r *DeviceRepositoryImpl) CreateActive(ctx context.Context, reg *device.Registration) error {
	if !reg.IsActive() {
		return fmt.Errorf("cannot register a revoked device as active")
	}
	model := r.mapper.ToModel(reg)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			r.logger.Infow("lost device bootstrap race", "tenant_id", reg.TenantID())
			return device.ErrActiveDeviceExists
		}
		r.logger.Errorw("failed to create device registration", "tenant_id", reg.TenantID(), "error", err)
		return fmt.Errorf("failed to create device registration: %w", err)
	}
	reg.SetID(model.ID)

	r.logger.Infow("device registered",
		"id", model.ID,
		"tenant_id", model.TenantID,
		"device_type", model.DeviceType)
	return nil
}

func (r *DeviceRepositoryImpl) TouchLastSeen(ctx context.Context, id uint, at time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.DeviceRegistrationModel{}).
		Where("id = ?", id).
		Update("last_seen_at", at.UTC())
	if result.Error != nil {
		r.logger.Errorw("failed to touch device last_seen_at", "id", id, "error", result.Error)
		return fmt.Errorf("failed to touch device: %w", result.Error)
	}
	return nil
}

// Revoke clears the active slot together with setting revoked_at so the
// tenant may bootstrap again.
func (r *DeviceRepositoryImpl) Revoke(ctx context.Context, tenantID string, at time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.DeviceRegistrationModel{}).
		Scopes(db.ForTenant(tenantID), db.NotRevoked()).
		Updates(map[string]any{
			"revoked_at":  at.UTC(),
			"active_slot": nil,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to revoke device", "tenant_id", tenantID, "error", result.Error)
		return fmt.Errorf("failed to revoke device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return device.ErrNoActiveDevice
	}

	r.logger.Infow("device revoked", "tenant_id", tenantID)
	return nil
}

func (r *DeviceRepositoryImpl) ListByTenant(ctx context.Context, tenantID string) ([]*device.Registration, error) {
	var list []models.DeviceRegistrationModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForTenant(tenantID), db.NewestFirst("registered_at")).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list devices", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return r.mapper.ToEntities(list)
}
