package mappers

import (
	"fmt"

	"licenseguard/internal/domain/license"
	"licenseguard/internal/infrastructure/persistence/models"
)

// LicenseMapper handles the conversion between license entities and persistence models
type LicenseMapper interface {
	ToEntity(model *models.LicenseModel) (*license.License, error)
	ToModel(entity *license.License) *models.LicenseModel
}

type licenseMapper struct{}

func NewLicenseMapper() LicenseMapper {
	return &licenseMapper{}
}

func (m *licenseMapper) ToEntity(model *models.LicenseModel) (*license.License, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := license.ReconstructLicense(license.Snapshot{
		ID:                          model.ID,
		TenantID:                    model.TenantID,
		Status:                      license.Status(model.Status),
		ExpiresAt:                   utcPtr(model.ExpiresAt),
		GracePeriodDays:             model.GracePeriodDays,
		GraceUntil:                  utcPtr(model.GraceUntil),
		AllowedIP:                   model.AllowedIP,
		RegisteredDeviceFingerprint: model.RegisteredDeviceFingerprint,
		MaxDevices:                  model.MaxDevices,
		LastCheckinAt:               utcPtr(model.LastCheckinAt),
		LastValidatedAt:             utcPtr(model.LastValidatedAt),
		ValidationCount:             model.ValidationCount,
		LastViolationAt:             utcPtr(model.LastViolationAt),
		ViolationCount:              model.ViolationCount,
		CreatedAt:                   model.CreatedAt.UTC(),
		UpdatedAt:                   model.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct license entity: %w", err)
	}
	return entity, nil
}

func (m *licenseMapper) ToModel(entity *license.License) *models.LicenseModel {
	if entity == nil {
		return nil
	}
	return &models.LicenseModel{
		ID:                          entity.ID(),
		TenantID:                    entity.TenantID(),
		Status:                      entity.Status().String(),
		ExpiresAt:                   entity.ExpiresAt(),
		GracePeriodDays:             entity.GracePeriodDays(),
		GraceUntil:                  entity.GraceUntil(),
		AllowedIP:                   entity.AllowedIP().Nullable(),
		RegisteredDeviceFingerprint: entity.RegisteredDeviceFingerprint(),
		MaxDevices:                  entity.MaxDevices(),
		LastCheckinAt:               entity.LastCheckinAt(),
		LastValidatedAt:             entity.LastValidatedAt(),
		ValidationCount:             entity.ValidationCount(),
		LastViolationAt:             entity.LastViolationAt(),
		ViolationCount:              entity.ViolationCount(),
		CreatedAt:                   entity.CreatedAt(),
		UpdatedAt:                   entity.UpdatedAt(),
	}
}
