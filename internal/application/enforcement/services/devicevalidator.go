package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/domain/device"
	"licenseguard/internal/domain/license"
	"licenseguard/internal/shared/authorization"
	"licenseguard/internal/shared/logger"
)

const maxDeviceLabelLength = 120

// DeviceOutcome is the result class of a device binding check.
type DeviceOutcome int

const (
	DeviceAllowed DeviceOutcome = iota
	DeviceBootstrapped
	DeviceDenied
)

// BootstrapAuthorizer decides which roles may register a tenant's first device.
type BootstrapAuthorizer interface {
	CanBootstrap(ctx context.Context, role authorization.UserRole) (bool, error)
}

// TxRunner runs fn in a transaction that repositories join through ctx.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DeviceCheckInput is the slice of the request the device check needs.
type DeviceCheckInput struct {
	TenantID    string
	UserID      string
	Role        authorization.UserRole
	DeviceID    string
	DeviceLabel string
	UserAgent   string
	Fingerprint string
	IP          string
	Now         time.Time
}

type DeviceCheckResult struct {
	Outcome         DeviceOutcome
	Code            dto.DenialCode
	Message         string
	ViolationReason string
	Details         map[string]any
	// Registration is the tenant's active device after the check, if any.
	Registration *device.Registration
}

// DeviceBindingValidator enforces one active device per tenant. The first
// device is registered by a conditional insert; a concurrent loser re-reads
// the winner and is judged against it.
type DeviceBindingValidator struct {
	devices      device.Repository
	licenses     license.Repository
	authorizer   BootstrapAuthorizer
	tx           TxRunner
	sanitizer    *bluemonday.Policy
	seenThrottle time.Duration
	logger       logger.Interface
}

func NewDeviceBindingValidator(
	devices device.Repository,
	licenses license.Repository,
	authorizer BootstrapAuthorizer,
	tx TxRunner,
	seenThrottle time.Duration,
	logger logger.Interface,
) *DeviceBindingValidator {
	return &DeviceBindingValidator{
		devices:      devices,
		licenses:     licenses,
		authorizer:   authorizer,
		tx:           tx,
		sanitizer:    bluemonday.StrictPolicy(),
		seenThrottle: seenThrottle,
		logger:       logger,
	}
}

// Validate returns an error only for persistence or authorization failures;
// policy outcomes are reported in the result.
func (v *DeviceBindingValidator) Validate(ctx context.Context, lic *license.License, in DeviceCheckInput) (DeviceCheckResult, error) {
	active, err := v.devices.FindActive(ctx, in.TenantID)
	switch {
	case err == nil:
		return v.judge(ctx, active, in)
	case errors.Is(err, device.ErrNoActiveDevice):
		return v.bootstrap(ctx, lic, in)
	default:
		return DeviceCheckResult{}, fmt.Errorf("failed to load active device: %w", err)
	}
}

func (v *DeviceBindingValidator) judge(ctx context.Context, active *device.Registration, in DeviceCheckInput) (DeviceCheckResult, error) {
	if !active.Matches(in.DeviceID) {
		return mismatch(active, in.DeviceID), nil
	}

	if active.SeenDue(in.Now, v.seenThrottle) {
		if err := v.devices.TouchLastSeen(ctx, active.ID(), in.Now); err != nil {
			return DeviceCheckResult{}, fmt.Errorf("failed to touch device last seen: %w", err)
		}
	}

	return DeviceCheckResult{Outcome: DeviceAllowed, Registration: active}, nil
}

func mismatch(active *device.Registration, requestDeviceID string) DeviceCheckResult {
	label := active.DisplayLabel()
	registeredAt := active.RegisteredAt().UTC()

	reason := fmt.Sprintf("device %q does not match active device %q", requestDeviceID, active.DeviceID())
	if requestDeviceID == "" {
		reason = fmt.Sprintf("no device identifier presented; active device %q", active.DeviceID())
	}

	return DeviceCheckResult{
		Outcome: DeviceDenied,
		Code:    dto.CodeDeviceMismatch,
		Message: fmt.Sprintf("This license is already in use on %s (registered %s). Ask the account owner to release it.",
			label, registeredAt.Format("2006-01-02")),
		ViolationReason: reason,
		Details: map[string]any{
			"active_device_label":         label,
			"active_device_registered_at": registeredAt,
		},
	}
}

func (v *DeviceBindingValidator) bootstrap(ctx context.Context, lic *license.License, in DeviceCheckInput) (DeviceCheckResult, error) {
	allowed, err := v.authorizer.CanBootstrap(ctx, in.Role)
	if err != nil {
		return DeviceCheckResult{}, fmt.Errorf("failed to authorize device bootstrap: %w", err)
	}
	if !allowed {
		return DeviceCheckResult{
			Outcome: DeviceDenied,
			Code:    dto.CodeOwnerRequired,
			Message: "No device is registered for this license yet. The account owner must sign in first to register this device.",
		}, nil
	}

	deviceType, label := device.DescribeUserAgent(in.UserAgent)
	if custom := v.sanitizeLabel(in.DeviceLabel); custom != "" {
		label = custom
	}

	reg, err := device.NewRegistration(in.TenantID, in.UserID, in.DeviceID, deviceType, label, in.Fingerprint, in.IP, in.Now)
	if errors.Is(err, device.ErrDeviceIDRequired) {
		return DeviceCheckResult{
			Outcome:         DeviceDenied,
			Code:            dto.CodeDeviceMismatch,
			Message:         "This device could not be identified. Enable cookies and try again.",
			ViolationReason: "no device identifier presented at bootstrap",
		}, nil
	}
	if err != nil {
		return DeviceCheckResult{}, fmt.Errorf("failed to build device registration: %w", err)
	}

	err = v.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := v.devices.CreateActive(txCtx, reg); err != nil {
			return err
		}
		if in.Fingerprint == "" {
			return nil
		}
		return v.licenses.SetRegisteredFingerprint(txCtx, lic.ID(), in.Fingerprint)
	})

	if errors.Is(err, device.ErrActiveDeviceExists) {
		winner, findErr := v.devices.FindActive(ctx, in.TenantID)
		if findErr != nil {
			return DeviceCheckResult{}, fmt.Errorf("failed to reload device after bootstrap race: %w", findErr)
		}
		v.logger.Infow("device bootstrap lost race",
			"tenant_id", in.TenantID,
			"matches_winner", winner.Matches(in.DeviceID),
		)
		return v.judge(ctx, winner, in)
	}
	if err != nil {
		return DeviceCheckResult{}, fmt.Errorf("failed to register device: %w", err)
	}

	if in.Fingerprint != "" {
		lic.MarkFingerprintRegistered(in.Fingerprint)
	}

	v.logger.Infow("device bootstrapped",
		"tenant_id", in.TenantID,
		"user_id", in.UserID,
		"device_type", deviceType,
	)

	return DeviceCheckResult{Outcome: DeviceBootstrapped, Registration: reg}, nil
}

// sanitizeLabel strips markup from a client-chosen label and bounds its length.
// The label is stored and returned as plain text, so the entities the
// sanitizer emits are decoded before truncation.
func (v *DeviceBindingValidator) sanitizeLabel(label string) string {
	clean := strings.TrimSpace(html.UnescapeString(v.sanitizer.Sanitize(label)))
	clean = strings.Join(strings.Fields(clean), " ")
	if utf8.RuneCountInString(clean) > maxDeviceLabelLength {
		clean = string([]rune(clean)[:maxDeviceLabelLength])
	}
	return clean
}
