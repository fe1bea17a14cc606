package dto

import (
	"net/http"
	"time"

	"licenseguard/internal/domain/license"
	"licenseguard/internal/shared/authorization"
)

// DenialCode is the machine-readable reason a request was refused.
type DenialCode string

const (
	CodeUnauthorized     DenialCode = "UNAUTHORIZED"
	CodeLicenseNotFound  DenialCode = "LICENSE_NOT_FOUND"
	CodeLicenseInactive  DenialCode = "LICENSE_INACTIVE"
	CodeIPNotDetected    DenialCode = "IP_NOT_DETECTED"
	CodeIPNotAllowed     DenialCode = "IP_NOT_ALLOWED"
	CodeDeviceMismatch   DenialCode = "DEVICE_MISMATCH"
	CodeOwnerRequired    DenialCode = "OWNER_REQUIRED_FOR_FIRST_DEVICE_REG"
	CodeRateLimited      DenialCode = "RATE_LIMITED"
	CodeEnforcementError DenialCode = "ENFORCEMENT_ERROR"
)

func (c DenialCode) String() string {
	return string(c)
}

// EnforceRequest is everything the orchestrator knows about one request.
// Identity fields come from the authenticated session, never from the body.
type EnforceRequest struct {
	TenantID  string                 `json:"tenant_id" validate:"required,max=64"`
	UserID    string                 `json:"user_id" validate:"required,max=64"`
	UserRole  authorization.UserRole `json:"user_role"`
	RequestIP string                 `json:"request_ip" validate:"omitempty,max=64"`
	DeviceID  string                 `json:"device_id" validate:"omitempty,max=64"`
	Route     string                 `json:"route"`
	Method    string                 `json:"method"`
	UserAgent string                 `json:"user_agent"`
	// DeviceLabel is an optional client-chosen name used only at bootstrap.
	DeviceLabel string      `json:"device_label" validate:"omitempty,max=200"`
	Header      http.Header `json:"-"`
}

// GraceInfo is the grace window as reported to clients.
type GraceInfo struct {
	Expired       bool       `json:"expired"`
	InGrace       bool       `json:"in_grace"`
	GraceUntil    *time.Time `json:"grace_until,omitempty"`
	DaysInGrace   *int       `json:"days_in_grace,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
}

func NewGraceInfo(g license.GraceEvaluation) *GraceInfo {
	return &GraceInfo{
		Expired:       g.Expired,
		InGrace:       g.InGrace,
		GraceUntil:    g.GraceUntil,
		DaysInGrace:   g.DaysInGrace,
		DaysRemaining: g.DaysRemaining,
	}
}

// Decision is the outcome of one enforcement call. Denials are values, not
// errors. Message and Details only ever carry masked identifiers.
type Decision struct {
	Allowed      bool                `json:"allowed"`
	Code         DenialCode          `json:"code,omitempty"`
	Message      string              `json:"message,omitempty"`
	AccessLevel  license.AccessLevel `json:"access_level,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Details      map[string]any      `json:"details,omitempty"`
	Grace        *GraceInfo          `json:"grace,omitempty"`
	Bootstrapped bool                `json:"bootstrapped,omitempty"`
	// RetryAfter is set on RATE_LIMITED denials.
	RetryAfter time.Duration `json:"-"`
}

func Deny(code DenialCode, message string) *Decision {
	return &Decision{Code: code, Message: message}
}

// LicenseStatusDTO backs GET /api/license/status.
type LicenseStatusDTO struct {
	TenantID      string              `json:"tenant_id"`
	Status        string              `json:"status"`
	AccessLevel   license.AccessLevel `json:"access_level"`
	Reason        string              `json:"reason"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty"`
	Grace         *GraceInfo          `json:"grace"`
	IPRestricted  bool                `json:"ip_restricted"`
	AllowedIP     string              `json:"allowed_ip,omitempty"`
	LastCheckinAt *time.Time          `json:"last_checkin_at,omitempty"`
	Device        *DeviceDTO          `json:"device,omitempty"`
}

// DeviceDTO describes the active device without exposing its identifier.
type DeviceDTO struct {
	DeviceID     string    `json:"device_id"`
	Label        string    `json:"label"`
	Type         string    `json:"type"`
	RegisteredAt time.Time `json:"registered_at"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	IsCurrent    bool      `json:"is_current"`
}
