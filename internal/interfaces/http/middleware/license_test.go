package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/domain/license"
	"licenseguard/internal/shared/config"
	"licenseguard/internal/shared/constants"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubEnforcer struct {
	decision *dto.Decision
	got      dto.EnforceRequest
}

func (s *stubEnforcer) Execute(_ context.Context, req dto.EnforceRequest) *dto.Decision {
	s.got = req
	return s.decision
}

func newLicenseEngine(enf Enforcer, cfg LicenseMiddlewareConfig) *gin.Engine {
	if cfg.DeviceCookie.Name == "" {
		cfg.DeviceCookie = utils.DeviceCookie{Name: "lg_device_id", MaxAge: 3600, Cookie: config.CookieConfig{Path: "/"}}
	}
	mw := NewLicenseMiddleware(enf, cfg, logger.NewNop())

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, "u-1")
		c.Set(constants.ContextKeyTenantID, "t-1")
		c.Set(constants.ContextKeyUserRole, "Owner")
		c.Next()
	})
	engine.Use(mw.Enforce())
	engine.GET("/api/sales", func(c *gin.Context) {
		level, _ := c.Get(constants.ContextKeyAccessLevel)
		c.String(http.StatusOK, "%v", level)
	})
	return engine
}

func TestLicenseMiddleware_Allowed(t *testing.T) {
	days := 3
	enf := &stubEnforcer{decision: &dto.Decision{
		Allowed:     true,
		AccessLevel: license.AccessReadOnly,
		Grace:       &dto.GraceInfo{Expired: true, InGrace: true, DaysInGrace: &days},
	}}
	engine := newLicenseEngine(enf, LicenseMiddlewareConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 203.0.113.5")
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(constants.HeaderDeviceLabel, "Front counter")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "READ_ONLY", w.Body.String())
	assert.Equal(t, "READ_ONLY", w.Header().Get(constants.HeaderLicenseAccessLevel))
	assert.Equal(t, "3", w.Header().Get(constants.HeaderLicenseGraceDaysLeft))

	assert.Equal(t, "t-1", enf.got.TenantID)
	assert.Equal(t, "owner", string(enf.got.UserRole))
	assert.Equal(t, "203.0.113.5", enf.got.RequestIP)
	assert.Equal(t, "/api/sales", enf.got.Route)
	assert.Equal(t, "test-agent", enf.got.UserAgent)
	assert.Equal(t, "Front counter", enf.got.DeviceLabel)
	assert.NotEmpty(t, enf.got.DeviceID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "lg_device_id", cookies[0].Name)
	assert.Equal(t, enf.got.DeviceID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLicenseMiddleware_KeepsExistingDeviceCookie(t *testing.T) {
	enf := &stubEnforcer{decision: &dto.Decision{Allowed: true, AccessLevel: license.AccessFull}}
	engine := newLicenseEngine(enf, LicenseMiddlewareConfig{})

	const id = "6f1c2d3e-0000-4000-8000-000000000001"
	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	req.AddCookie(&http.Cookie{Name: "lg_device_id", Value: id})
	engine.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, id, enf.got.DeviceID)
}

func TestLicenseMiddleware_RemoteAddrFallback(t *testing.T) {
	enf := &stubEnforcer{decision: &dto.Decision{Allowed: true, AccessLevel: license.AccessFull}}

	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	req.RemoteAddr = "198.51.100.7:51234"

	newLicenseEngine(enf, LicenseMiddlewareConfig{TrustRemoteAddr: true}).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.7", enf.got.RequestIP)

	newLicenseEngine(enf, LicenseMiddlewareConfig{}).ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, enf.got.RequestIP)
}

func TestLicenseMiddleware_DenialStatus(t *testing.T) {
	tests := []struct {
		name       string
		code       dto.DenialCode
		cfg        LicenseMiddlewareConfig
		wantStatus int
	}{
		{"unauthorized", dto.CodeUnauthorized, LicenseMiddlewareConfig{}, http.StatusUnauthorized},
		{"not found", dto.CodeLicenseNotFound, LicenseMiddlewareConfig{}, http.StatusNotFound},
		{"not found as forbidden", dto.CodeLicenseNotFound, LicenseMiddlewareConfig{NotFoundAsForbidden: true}, http.StatusForbidden},
		{"inactive", dto.CodeLicenseInactive, LicenseMiddlewareConfig{}, http.StatusForbidden},
		{"ip", dto.CodeIPNotAllowed, LicenseMiddlewareConfig{}, http.StatusForbidden},
		{"device", dto.CodeDeviceMismatch, LicenseMiddlewareConfig{}, http.StatusForbidden},
		{"owner required", dto.CodeOwnerRequired, LicenseMiddlewareConfig{}, http.StatusForbidden},
		{"rate limited", dto.CodeRateLimited, LicenseMiddlewareConfig{}, http.StatusTooManyRequests},
		{"error", dto.CodeEnforcementError, LicenseMiddlewareConfig{}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enf := &stubEnforcer{decision: dto.Deny(tt.code, "denied")}
			w := httptest.NewRecorder()
			newLicenseEngine(enf, tt.cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			var body utils.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code.String(), body.Error.Code)
			assert.Empty(t, w.Header().Get(constants.HeaderLicenseAccessLevel))
		})
	}
}

func TestLicenseMiddleware_RetryAfter(t *testing.T) {
	d := dto.Deny(dto.CodeRateLimited, "slow down")
	d.RetryAfter = 90*time.Second + 200*time.Millisecond
	d.Details = map[string]any{"retry_after_seconds": 90}

	w := httptest.NewRecorder()
	newLicenseEngine(&stubEnforcer{decision: d}, LicenseMiddlewareConfig{}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "91", w.Header().Get("Retry-After"))
	assert.True(t, strings.Contains(w.Body.String(), "retry_after_seconds"))
}
