package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/application/enforcement/services"
	"licenseguard/internal/domain/audit"
	"licenseguard/internal/domain/license"
	domainservices "licenseguard/internal/domain/shared/services"
	"licenseguard/internal/infrastructure/ratelimit"
	"licenseguard/internal/shared/biztime"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

const tracerName = "licenseguard/enforcement"

// FailureLimiter is the subset of the rate limiter enforcement uses.
type FailureLimiter interface {
	IsLimited(ctx context.Context, key string) (bool, ratelimit.Entry, error)
	RecordFailure(ctx context.Context, key string) (ratelimit.Entry, bool, error)
	Clear(ctx context.Context, key string) error
}

// MetricsRecorder receives enforcement outcomes.
type MetricsRecorder interface {
	ObserveDecision(outcome, code, accessLevel string, elapsed time.Duration)
	ObserveRateLimitTrip()
	ObserveBootstrap()
}

type nopRecorder struct{}

func (nopRecorder) ObserveDecision(string, string, string, time.Duration) {}
func (nopRecorder) ObserveRateLimitTrip()                                 {}
func (nopRecorder) ObserveBootstrap()                                     {}

type EnforceConfig struct {
	CheckinThrottle time.Duration
}

// EnforceUseCase is the single decision entry point for protected requests.
type EnforceUseCase struct {
	licenses     license.Repository
	limiter      FailureLimiter
	ipValidator  *services.IPBindingValidator
	devices      *services.DeviceBindingValidator
	audit        *services.AuditLogger
	fingerprints domainservices.FingerprintGenerator
	cfg          EnforceConfig
	metrics      MetricsRecorder
	tracer       trace.Tracer
	now          biztime.Clock
	logger       logger.Interface
}

func NewEnforceUseCase(
	licenses license.Repository,
	limiter FailureLimiter,
	ipValidator *services.IPBindingValidator,
	devices *services.DeviceBindingValidator,
	auditLogger *services.AuditLogger,
	fingerprints domainservices.FingerprintGenerator,
	cfg EnforceConfig,
	logger logger.Interface,
) *EnforceUseCase {
	if cfg.CheckinThrottle <= 0 {
		cfg.CheckinThrottle = time.Hour
	}
	return &EnforceUseCase{
		licenses:     licenses,
		limiter:      limiter,
		ipValidator:  ipValidator,
		devices:      devices,
		audit:        auditLogger,
		fingerprints: fingerprints,
		cfg:          cfg,
		metrics:      nopRecorder{},
		tracer:       otel.Tracer(tracerName),
		now:          biztime.NowUTC,
		logger:       logger,
	}
}

func (uc *EnforceUseCase) WithMetrics(m MetricsRecorder) *EnforceUseCase {
	if m != nil {
		uc.metrics = m
	}
	return uc
}

func (uc *EnforceUseCase) WithTracer(t trace.Tracer) *EnforceUseCase {
	if t != nil {
		uc.tracer = t
	}
	return uc
}

func (uc *EnforceUseCase) WithClock(c biztime.Clock) *EnforceUseCase {
	if c != nil {
		uc.now = c
	}
	return uc
}

// enforcement carries per-call state through the decision steps.
type enforcement struct {
	req         dto.EnforceRequest
	now         time.Time
	key         string
	fingerprint string
	lic         *license.License
	span        trace.Span
}

// Execute decides one request. It never returns an error: persistence
// failures surface as ENFORCEMENT_ERROR denials.
func (uc *EnforceUseCase) Execute(ctx context.Context, req dto.EnforceRequest) *dto.Decision {
	started := time.Now()

	ctx, span := uc.tracer.Start(ctx, "license.enforce",
		trace.WithAttributes(
			attribute.String("license.tenant_id", req.TenantID),
			attribute.String("http.request.method", req.Method),
			attribute.String("http.route", req.Route),
		),
	)
	defer span.End()

	d := uc.decide(ctx, req, span)

	span.SetAttributes(
		attribute.Bool("license.allowed", d.Allowed),
		attribute.String("license.code", d.Code.String()),
		attribute.String("license.access_level", d.AccessLevel.String()),
	)
	outcome := "allowed"
	switch {
	case d.Code == dto.CodeEnforcementError:
		outcome = "error"
		span.SetStatus(codes.Error, d.Message)
	case !d.Allowed:
		outcome = "denied"
	}
	uc.metrics.ObserveDecision(outcome, d.Code.String(), d.AccessLevel.String(), time.Since(started))

	return d
}

func (uc *EnforceUseCase) decide(ctx context.Context, req dto.EnforceRequest, span trace.Span) *dto.Decision {
	req.RequestIP = utils.NormalizeIP(req.RequestIP)
	if err := utils.ValidateStruct(req); err != nil {
		uc.logger.Warnw("rejecting unauthenticated enforcement request", "error", err)
		return dto.Deny(dto.CodeUnauthorized, "Authentication is required.")
	}

	e := &enforcement{
		req:         req,
		now:         uc.now(),
		key:         ratelimit.Key(req.RequestIP, req.DeviceID),
		fingerprint: uc.fingerprints.Generate(req.UserAgent, req.Header),
		span:        span,
	}

	// 1. rate-limit gate, before any database read
	if d := uc.checkRateLimit(ctx, e); d != nil {
		return d
	}

	// 2. license lookup
	lic, err := uc.licenses.GetByTenantID(ctx, req.TenantID)
	if errors.Is(err, license.ErrLicenseNotFound) {
		uc.recordFailure(ctx, e)
		d := dto.Deny(dto.CodeLicenseNotFound, "No license was found for this account.")
		uc.recordDecision(ctx, e, audit.ActionDenied, d)
		return d
	}
	if err != nil {
		return uc.fail(ctx, e, "load_license", err)
	}
	e.lic = lic
	span.SetAttributes(attribute.Int64("license.id", int64(lic.ID())))

	grace, access := lic.Evaluate(e.now)

	// 3. suspension
	if lic.IsSuspended() {
		d := dto.Deny(dto.CodeLicenseInactive, "This license has been suspended. Contact support to restore access.")
		d.AccessLevel = license.AccessBlocked
		d.Reason = access.Reason
		d.Grace = dto.NewGraceInfo(grace)
		uc.recordViolation(ctx, e, audit.ViolationSuspended, fmt.Sprintf("license %d is suspended", lic.ID()))
		uc.recordDecision(ctx, e, audit.ActionDenied, d)
		return d
	}

	// 4. grace and access level
	if lic.NeedsGraceUntil(grace) {
		if err := uc.licenses.SetGraceUntil(ctx, lic.ID(), *grace.GraceUntil); err != nil {
			return uc.fail(ctx, e, "set_grace_until", err)
		}
		lic.MarkGraceUntil(*grace.GraceUntil)
	}

	if access.Level == license.AccessReadOnly {
		return uc.allowReadOnly(ctx, e, grace, access)
	}
	if access.Level == license.AccessBlocked {
		d := dto.Deny(dto.CodeLicenseInactive, access.Reason)
		d.AccessLevel = license.AccessBlocked
		uc.recordDecision(ctx, e, audit.ActionDenied, d)
		return d
	}

	// 5. IP binding
	ipResult := uc.ipValidator.Validate(lic.AllowedIP(), req.RequestIP)
	if !ipResult.Allowed {
		d := dto.Deny(ipResult.Code, ipResult.Message)
		d.AccessLevel = access.Level
		d.Details = ipResult.Details
		uc.recordViolation(ctx, e, audit.ViolationIPMismatch, ipResult.ViolationReason)
		if ipResult.Code == dto.CodeIPNotAllowed {
			uc.recordFailure(ctx, e)
		}
		uc.recordDecision(ctx, e, audit.ActionDenied, d)
		return d
	}

	// 6. device binding
	devResult, err := uc.devices.Validate(ctx, lic, services.DeviceCheckInput{
		TenantID:    req.TenantID,
		UserID:      req.UserID,
		Role:        req.UserRole,
		DeviceID:    req.DeviceID,
		DeviceLabel: req.DeviceLabel,
		UserAgent:   req.UserAgent,
		Fingerprint: e.fingerprint,
		IP:          req.RequestIP,
		Now:         e.now,
	})
	if err != nil {
		return uc.fail(ctx, e, "device_binding", err)
	}
	if devResult.Outcome == services.DeviceDenied {
		d := dto.Deny(devResult.Code, devResult.Message)
		d.AccessLevel = access.Level
		d.Details = devResult.Details
		if devResult.Code == dto.CodeDeviceMismatch {
			uc.recordViolation(ctx, e, audit.ViolationDeviceMismatch, devResult.ViolationReason)
			uc.recordFailure(ctx, e)
		}
		uc.recordDecision(ctx, e, audit.ActionDenied, d)
		return d
	}

	// 7. success
	if err := uc.limiter.Clear(ctx, e.key); err != nil {
		uc.logger.Warnw("failed to clear rate limit entry", "error", err, "tenant_id", req.TenantID)
	}
	if err := uc.checkin(ctx, e); err != nil {
		return uc.fail(ctx, e, "checkin", err)
	}

	d := &dto.Decision{
		Allowed:      true,
		AccessLevel:  access.Level,
		Reason:       access.Reason,
		Grace:        dto.NewGraceInfo(grace),
		Bootstrapped: devResult.Outcome == services.DeviceBootstrapped,
	}
	if d.Bootstrapped {
		uc.metrics.ObserveBootstrap()
		uc.recordDecision(ctx, e, audit.ActionDeviceBootstrap, d)
	} else {
		uc.recordDecision(ctx, e, audit.ActionAllowed, d)
	}
	return d
}

func (uc *EnforceUseCase) checkRateLimit(ctx context.Context, e *enforcement) *dto.Decision {
	limited, entry, err := uc.limiter.IsLimited(ctx, e.key)
	if err != nil {
		// the limiter slows probing; its backend being down must not lock tenants out
		uc.logger.Warnw("rate limit lookup failed, continuing", "error", err, "tenant_id", e.req.TenantID)
		return nil
	}
	if !limited {
		return nil
	}

	retryAfter := entry.ResetAt.Sub(e.now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	minutes := biztime.CeilMinutes(retryAfter)
	d := dto.Deny(dto.CodeRateLimited,
		fmt.Sprintf("Too many failed license checks from this device. Try again in %d minute(s).", minutes))
	d.RetryAfter = retryAfter
	d.Details = map[string]any{"retry_after_seconds": int(retryAfter.Seconds())}
	uc.recordDecision(ctx, e, audit.ActionRateLimited, d)
	return d
}

func (uc *EnforceUseCase) allowReadOnly(ctx context.Context, e *enforcement, grace license.GraceEvaluation, access license.AccessDecision) *dto.Decision {
	checkinDue := e.lic.CheckinDue(e.now, uc.cfg.CheckinThrottle)
	if checkinDue && grace.Expired && !grace.InGrace {
		// at most one EXPIRED violation per checkin window
		uc.recordViolation(ctx, e, audit.ViolationExpired, fmt.Sprintf("license %d expired and grace period ended", e.lic.ID()))
	}
	if err := uc.checkin(ctx, e); err != nil {
		return uc.fail(ctx, e, "checkin", err)
	}

	d := &dto.Decision{
		Allowed:     true,
		AccessLevel: license.AccessReadOnly,
		Reason:      access.Reason,
		Grace:       dto.NewGraceInfo(grace),
	}
	uc.recordDecision(ctx, e, audit.ActionAllowedReadOnly, d)
	return d
}

func (uc *EnforceUseCase) checkin(ctx context.Context, e *enforcement) error {
	if !e.lic.CheckinDue(e.now, uc.cfg.CheckinThrottle) {
		return nil
	}
	if err := uc.licenses.UpdateCheckin(ctx, e.lic.ID(), e.now); err != nil {
		return err
	}
	e.lic.MarkCheckedIn(e.now)
	return nil
}

func (uc *EnforceUseCase) recordFailure(ctx context.Context, e *enforcement) {
	_, tripped, err := uc.limiter.RecordFailure(ctx, e.key)
	if err != nil {
		uc.logger.Warnw("failed to record rate limit failure", "error", err, "tenant_id", e.req.TenantID)
		return
	}
	if !tripped {
		return
	}

	uc.metrics.ObserveRateLimitTrip()
	uc.logger.Warnw("rate limit tripped",
		"tenant_id", e.req.TenantID,
		"ip", utils.MaskIP(e.req.RequestIP),
		"device_id", utils.MaskDeviceID(e.req.DeviceID),
	)
	if e.lic != nil {
		uc.recordViolation(ctx, e, audit.ViolationRateLimited, "failure limit reached for "+e.key)
	}
}

func (uc *EnforceUseCase) recordViolation(ctx context.Context, e *enforcement, t audit.ViolationType, reason string) {
	uc.audit.RecordViolation(ctx, &audit.Violation{
		TenantID:          e.req.TenantID,
		LicenseID:         e.lic.ID(),
		Type:              t,
		Reason:            reason,
		IPAddress:         e.req.RequestIP,
		DeviceID:          e.req.DeviceID,
		DeviceFingerprint: e.fingerprint,
		UserAgent:         e.req.UserAgent,
		OccurredAt:        e.now,
	})
}

func (uc *EnforceUseCase) recordDecision(ctx context.Context, e *enforcement, action audit.Action, d *dto.Decision) {
	meta := map[string]any{
		"route":       e.req.Route,
		"method":      e.req.Method,
		"ip":          utils.MaskIP(e.req.RequestIP),
		"device_id":   utils.MaskDeviceID(e.req.DeviceID),
		"fingerprint": e.fingerprint,
	}
	if d.Code != "" {
		meta["code"] = d.Code.String()
	}
	if d.AccessLevel != "" {
		meta["access_level"] = d.AccessLevel.String()
	}
	if e.lic != nil {
		meta["license_id"] = e.lic.ID()
	}

	actor := e.req.UserID
	uc.audit.RecordEntry(ctx, &audit.Entry{
		TenantID:    e.req.TenantID,
		ActorUserID: &actor,
		Action:      action,
		Meta:        meta,
		OccurredAt:  e.now,
	})
}

// fail closes the request after a persistence error.
func (uc *EnforceUseCase) fail(ctx context.Context, e *enforcement, stage string, err error) *dto.Decision {
	uc.logger.Errorw("license enforcement failed",
		"error", err,
		"stage", stage,
		"tenant_id", e.req.TenantID,
	)
	e.span.RecordError(err, trace.WithAttributes(attribute.String("license.stage", stage)))

	d := dto.Deny(dto.CodeEnforcementError, "License verification is temporarily unavailable. Please retry shortly.")
	uc.recordDecision(ctx, e, audit.ActionEnforcementFailed, d)
	return d
}
