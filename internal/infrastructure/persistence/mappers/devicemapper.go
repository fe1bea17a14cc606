package mappers

import (
	"fmt"

	"licenseguard/internal/domain/device"
	"licenseguard/internal/infrastructure/persistence/models"
)

// DeviceMapper handles the conversion between device registrations and persistence models
type DeviceMapper interface {
	ToEntity(model *models.DeviceRegistrationModel) (*device.Registration, error)
	ToModel(entity *device.Registration) *models.DeviceRegistrationModel
	ToEntities(models []models.DeviceRegistrationModel) ([]*device.Registration, error)
}

type deviceMapper struct{}

func NewDeviceMapper() DeviceMapper {
	return &deviceMapper{}
}

func (m *deviceMapper) ToEntity(model *models.DeviceRegistrationModel) (*device.Registration, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := device.ReconstructRegistration(
		model.ID,
		model.TenantID,
		model.UserID,
		model.DeviceID,
		device.Type(model.DeviceType),
		model.DeviceLabel,
		model.Fingerprint,
		model.RegisteredIP,
		model.RegisteredAt.UTC(),
		model.LastSeenAt.UTC(),
		utcPtr(model.RevokedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct device registration: %w", err)
	}
	return entity, nil
}

// ToModel sets ActiveSlot from the revocation state.
func (m *deviceMapper) ToModel(entity *device.Registration) *models.DeviceRegistrationModel {
	if entity == nil {
		return nil
	}
	var slot *string
	if entity.IsActive() {
		v := models.ActiveSlotValue
		slot = &v
	}
	return &models.DeviceRegistrationModel{
		ID:           entity.ID(),
		TenantID:     entity.TenantID(),
		ActiveSlot:   slot,
		UserID:       entity.UserID(),
		DeviceID:     entity.DeviceID(),
		DeviceType:   string(entity.DeviceType()),
		DeviceLabel:  entity.DeviceLabel(),
		Fingerprint:  entity.Fingerprint(),
		RegisteredIP: entity.RegisteredIP(),
		RegisteredAt: entity.RegisteredAt(),
		LastSeenAt:   entity.LastSeenAt(),
		RevokedAt:    entity.RevokedAt(),
	}
}

func (m *deviceMapper) ToEntities(list []models.DeviceRegistrationModel) ([]*device.Registration, error) {
	entities := make([]*device.Registration, 0, len(list))
	for i := range list {
		entity, err := m.ToEntity(&list[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map model at index %d (ID %d): %w", i, list[i].ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
