package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/shared/authorization"
	"licenseguard/internal/shared/biztime"
	"licenseguard/internal/shared/constants"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

// Enforcer decides one request.
type Enforcer interface {
	Execute(ctx context.Context, req dto.EnforceRequest) *dto.Decision
}

type LicenseMiddlewareConfig struct {
	DeviceCookie utils.DeviceCookie
	// TrustRemoteAddr falls back to the TCP peer when proxy headers carry no
	// public address.
	TrustRemoteAddr     bool
	NotFoundAsForbidden bool
}

type LicenseMiddleware struct {
	enforcer Enforcer
	cfg      LicenseMiddlewareConfig
	logger   logger.Interface
}

func NewLicenseMiddleware(enforcer Enforcer, cfg LicenseMiddlewareConfig, logger logger.Interface) *LicenseMiddleware {
	return &LicenseMiddleware{
		enforcer: enforcer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Enforce runs after RequireAuth. Allowed requests continue with the access
// level on the context and in X-License-Access-Level.
func (m *LicenseMiddleware) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, source := utils.GetOrCreateDeviceID(c, m.cfg.DeviceCookie)
		if source == utils.DeviceIDFromGenerated {
			m.logger.Debugw("issued new device id", "path", c.Request.URL.Path)
		}
		c.Set(constants.ContextKeyDeviceID, deviceID)

		req := dto.EnforceRequest{
			TenantID:    c.GetString(constants.ContextKeyTenantID),
			UserID:      c.GetString(constants.ContextKeyUserID),
			UserRole:    authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole)),
			RequestIP:   m.clientIP(c),
			DeviceID:    deviceID,
			Route:       c.Request.URL.Path,
			Method:      c.Request.Method,
			UserAgent:   c.Request.UserAgent(),
			DeviceLabel: c.GetHeader(constants.HeaderDeviceLabel),
			Header:      c.Request.Header,
		}

		decision := m.enforcer.Execute(c.Request.Context(), req)
		c.Set(constants.ContextKeyDecision, decision)

		if !decision.Allowed {
			if decision.Code == dto.CodeRateLimited && decision.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(biztime.CeilSeconds(decision.RetryAfter)))
			}
			utils.AbortWithDenial(c, m.statusFor(decision.Code), decision.Code.String(), decision.Message, decision.Details)
			return
		}

		c.Set(constants.ContextKeyAccessLevel, decision.AccessLevel)
		c.Header(constants.HeaderLicenseAccessLevel, decision.AccessLevel.String())
		if decision.Grace != nil && decision.Grace.InGrace && decision.Grace.DaysInGrace != nil {
			c.Header(constants.HeaderLicenseGraceDaysLeft, strconv.Itoa(*decision.Grace.DaysInGrace))
		}

		c.Next()
	}
}

func (m *LicenseMiddleware) clientIP(c *gin.Context) string {
	if ip := utils.ExtractClientIP(c.Request.Header); ip != "" {
		return ip
	}
	if m.cfg.TrustRemoteAddr {
		return utils.RemoteAddrIP(c.Request.RemoteAddr)
	}
	return ""
}

func (m *LicenseMiddleware) statusFor(code dto.DenialCode) int {
	switch code {
	case dto.CodeUnauthorized:
		return http.StatusUnauthorized
	case dto.CodeLicenseNotFound:
		if m.cfg.NotFoundAsForbidden {
			return http.StatusForbidden
		}
		return http.StatusNotFound
	case dto.CodeRateLimited:
		return http.StatusTooManyRequests
	case dto.CodeEnforcementError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusForbidden
	}
}
