package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/application/enforcement/usecases"
	"licenseguard/internal/domain/license"
	"licenseguard/internal/interfaces/http/handlers/testutil"
	"licenseguard/internal/shared/authorization"
	"licenseguard/internal/shared/constants"
	apperrors "licenseguard/internal/shared/errors"
	"licenseguard/internal/shared/logger"
)

type mockGetStatusUC struct {
	result *dto.LicenseStatusDTO
	err    error
	query  usecases.GetLicenseStatusQuery
}

func (m *mockGetStatusUC) Execute(_ context.Context, query usecases.GetLicenseStatusQuery) (*dto.LicenseStatusDTO, error) {
	m.query = query
	return m.result, m.err
}

type mockGetDeviceUC struct {
	result *dto.DeviceDTO
	err    error
}

func (m *mockGetDeviceUC) Execute(context.Context, string, string) (*dto.DeviceDTO, error) {
	return m.result, m.err
}

type mockRevokeUC struct {
	err error
	cmd usecases.RevokeDeviceCommand
}

func (m *mockRevokeUC) Execute(_ context.Context, cmd usecases.RevokeDeviceCommand) error {
	m.cmd = cmd
	return m.err
}

const testDeviceID = "6f1c2d3e-4b5a-4c6d-8e7f-0123456789ab"

func newTestLicenseHandler(status *mockGetStatusUC, device *mockGetDeviceUC, revoke *mockRevokeUC) *LicenseHandler {
	if status == nil {
		status = &mockGetStatusUC{}
	}
	if device == nil {
		device = &mockGetDeviceUC{}
	}
	if revoke == nil {
		revoke = &mockRevokeUC{}
	}
	return NewLicenseHandler(status, device, revoke, "lg_device_id", logger.NewNop())
}

func TestLicenseHandler_GetStatus(t *testing.T) {
	status := &mockGetStatusUC{result: &dto.LicenseStatusDTO{
		TenantID:    "t-1",
		Status:      "active",
		AccessLevel: license.AccessFull,
		AllowedIP:   "203.0.x.x",
	}}
	h := newTestLicenseHandler(status, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/license/status")
	testutil.SetAuthContext(c, "u-1", "t-1", "cashier")
	c.Request.AddCookie(&http.Cookie{Name: "lg_device_id", Value: testDeviceID})

	h.GetStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t-1", status.query.TenantID)
	assert.Equal(t, testDeviceID, status.query.CurrentDeviceID)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var data dto.LicenseStatusDTO
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, license.AccessFull, data.AccessLevel)
	assert.Equal(t, "203.0.x.x", data.AllowedIP)
}

func TestLicenseHandler_GetStatus_NoCookieDoesNotMint(t *testing.T) {
	status := &mockGetStatusUC{result: &dto.LicenseStatusDTO{}}
	h := newTestLicenseHandler(status, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/license/status")
	testutil.SetAuthContext(c, "u-1", "t-1", "owner")

	h.GetStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, status.query.CurrentDeviceID)
	assert.Empty(t, w.Result().Cookies())
}

func TestLicenseHandler_GetStatus_NotFound(t *testing.T) {
	status := &mockGetStatusUC{err: apperrors.NewNotFoundError("License not found")}
	h := newTestLicenseHandler(status, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/license/status")
	testutil.SetAuthContext(c, "u-1", "t-1", "owner")
	h.GetStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLicenseHandler_GetStatus_InternalErrorHidden(t *testing.T) {
	status := &mockGetStatusUC{err: errors.New("dial tcp 10.0.0.3:3306: connection refused")}
	h := newTestLicenseHandler(status, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/license/status")
	testutil.SetAuthContext(c, "u-1", "t-1", "owner")
	h.GetStatus(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestLicenseHandler_GetDevice(t *testing.T) {
	device := &mockGetDeviceUC{result: &dto.DeviceDTO{DeviceID: "6f1c2d3e-****", Label: "Chrome on Windows", IsCurrent: true}}
	h := newTestLicenseHandler(nil, device, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/license/device")
	testutil.SetAuthContext(c, "u-1", "t-1", "owner")
	h.GetDevice(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Chrome on Windows")
	assert.NotContains(t, w.Body.String(), testDeviceID)
}

func TestLicenseHandler_RevokeDevice(t *testing.T) {
	revoke := &mockRevokeUC{}
	h := newTestLicenseHandler(nil, nil, revoke)

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/license/device")
	testutil.SetAuthContext(c, "u-1", "t-1", "OWNER")
	h.RevokeDevice(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t-1", revoke.cmd.TenantID)
	assert.Equal(t, "u-1", revoke.cmd.ActorUserID)
	assert.Equal(t, authorization.RoleOwner, revoke.cmd.ActorRole)
	assert.False(t, revoke.cmd.SkipAuthorization)
}

func TestLicenseHandler_RevokeDevice_Forbidden(t *testing.T) {
	revoke := &mockRevokeUC{err: apperrors.NewForbiddenError("Only the account owner can release the registered device")}
	h := newTestLicenseHandler(nil, nil, revoke)

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/license/device")
	testutil.SetAuthContext(c, "u-2", "t-1", "cashier")
	h.RevokeDevice(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLicenseHandler_Check(t *testing.T) {
	h := newTestLicenseHandler(nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/license/check")
	c.Set(constants.ContextKeyDecision, &dto.Decision{Allowed: true, AccessLevel: license.AccessFull})
	h.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_level":"FULL"`)

	c, w = testutil.NewTestContext(http.MethodGet, "/api/license/check")
	h.Check(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
