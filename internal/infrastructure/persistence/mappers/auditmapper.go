package mappers

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"gorm.io/datatypes"

	"licenseguard/internal/domain/audit"
	"licenseguard/internal/infrastructure/persistence/models"
)

// AuditMapper converts violations and audit entries to and from persistence models
type AuditMapper interface {
	ViolationToModel(v *audit.Violation) *models.LicenseViolationModel
	ViolationToEntity(m *models.LicenseViolationModel) *audit.Violation
	EntryToModel(e *audit.Entry) (*models.LicenseAuditLogModel, error)
	EntryToEntity(m *models.LicenseAuditLogModel) (*audit.Entry, error)
}

type auditMapper struct{}

func NewAuditMapper() AuditMapper {
	return &auditMapper{}
}

func (m *auditMapper) ViolationToModel(v *audit.Violation) *models.LicenseViolationModel {
	return &models.LicenseViolationModel{
		ID:                v.ID,
		TenantID:          v.TenantID,
		LicenseID:         v.LicenseID,
		ViolationType:     v.Type.String(),
		Reason:            truncate(v.Reason, 255),
		IPAddress:         v.IPAddress,
		DeviceID:          v.DeviceID,
		DeviceFingerprint: v.DeviceFingerprint,
		UserAgent:         truncate(v.UserAgent, 512),
		OccurredAt:        v.OccurredAt,
	}
}

func (m *auditMapper) ViolationToEntity(model *models.LicenseViolationModel) *audit.Violation {
	return &audit.Violation{
		ID:                model.ID,
		TenantID:          model.TenantID,
		LicenseID:         model.LicenseID,
		Type:              audit.ViolationType(model.ViolationType),
		Reason:            model.Reason,
		IPAddress:         model.IPAddress,
		DeviceID:          model.DeviceID,
		DeviceFingerprint: model.DeviceFingerprint,
		UserAgent:         model.UserAgent,
		OccurredAt:        model.OccurredAt.UTC(),
	}
}

func (m *auditMapper) EntryToModel(e *audit.Entry) (*models.LicenseAuditLogModel, error) {
	var meta datatypes.JSON
	if len(e.Meta) > 0 {
		raw, err := json.Marshal(e.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal audit meta: %w", err)
		}
		meta = datatypes.JSON(raw)
	}
	return &models.LicenseAuditLogModel{
		ID:          e.ID,
		TenantID:    e.TenantID,
		ActorUserID: e.ActorUserID,
		Action:      string(e.Action),
		Meta:        meta,
		OccurredAt:  e.OccurredAt,
	}, nil
}

func (m *auditMapper) EntryToEntity(model *models.LicenseAuditLogModel) (*audit.Entry, error) {
	var meta map[string]any
	if len(model.Meta) > 0 {
		if err := json.Unmarshal(model.Meta, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit meta for %s: %w", model.ID, err)
		}
	}
	return &audit.Entry{
		ID:          model.ID,
		TenantID:    model.TenantID,
		ActorUserID: model.ActorUserID,
		Action:      audit.Action(model.Action),
		Meta:        meta,
		OccurredAt:  model.OccurredAt.UTC(),
	}, nil
}

// truncate bounds s to limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
