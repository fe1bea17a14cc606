package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/application/enforcement/usecases"
	"licenseguard/internal/shared/authorization"
	"licenseguard/internal/shared/constants"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

var _ = dto.LicenseStatusDTO{}

type LicenseHandler struct {
	getStatusUC    getLicenseStatusUseCase
	getDeviceUC    getActiveDeviceUseCase
	revokeDeviceUC revokeDeviceUseCase
	deviceCookie   string
	logger         logger.Interface
}

func NewLicenseHandler(
	getStatusUC getLicenseStatusUseCase,
	getDeviceUC getActiveDeviceUseCase,
	revokeDeviceUC revokeDeviceUseCase,
	deviceCookie string,
	logger logger.Interface,
) *LicenseHandler {
	return &LicenseHandler{
		getStatusUC:    getStatusUC,
		getDeviceUC:    getDeviceUC,
		revokeDeviceUC: revokeDeviceUC,
		deviceCookie:   deviceCookie,
		logger:         logger,
	}
}

// GetStatus handles GET /api/license/status
// @Summary Get license status
// @Description Access level, grace countdown and masked binding information for the caller's tenant
// @Tags License
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=dto.LicenseStatusDTO}
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/license/status [get]
func (h *LicenseHandler) GetStatus(c *gin.Context) {
	query := usecases.GetLicenseStatusQuery{
		TenantID:        c.GetString(constants.ContextKeyTenantID),
		CurrentDeviceID: h.currentDeviceID(c),
	}

	result, err := h.getStatusUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetDevice handles GET /api/license/device
// @Summary Get active device
// @Description The device currently bound to the license, with a masked identifier
// @Tags License
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=dto.DeviceDTO}
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/license/device [get]
func (h *LicenseHandler) GetDevice(c *gin.Context) {
	result, err := h.getDeviceUC.Execute(c.Request.Context(), c.GetString(constants.ContextKeyTenantID), h.currentDeviceID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RevokeDevice handles DELETE /api/license/device
// @Summary Release the active device
// @Description Frees the device slot so the owner's next sign-in registers a new device
// @Tags License
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/license/device [delete]
func (h *LicenseHandler) RevokeDevice(c *gin.Context) {
	cmd := usecases.RevokeDeviceCommand{
		TenantID:    c.GetString(constants.ContextKeyTenantID),
		ActorUserID: c.GetString(constants.ContextKeyUserID),
		ActorRole:   authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole)),
	}

	if err := h.revokeDeviceUC.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device released", nil)
}

// Check handles GET /api/license/check. It sits behind the license
// middleware, so reaching it means the request was allowed.
// @Summary Check license for this request
// @Description Runs enforcement for the caller and returns the decision
// @Tags License
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=dto.Decision}
// @Failure 403 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /api/license/check [get]
func (h *LicenseHandler) Check(c *gin.Context) {
	decision, ok := c.Get(constants.ContextKeyDecision)
	if !ok {
		h.logger.Errorw("license check reached without a decision", "path", c.Request.URL.Path)
		utils.ErrorResponse(c, http.StatusInternalServerError, constants.ErrMsgInternalServerError)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", decision)
}

// HealthCheck handles GET /health
func (h *LicenseHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "licenseguard",
	})
}

// currentDeviceID reads the device cookie without issuing one; status
// endpoints must not mint identifiers.
func (h *LicenseHandler) currentDeviceID(c *gin.Context) string {
	if id, ok := c.Get(constants.ContextKeyDeviceID); ok {
		if s, _ := id.(string); s != "" {
			return s
		}
	}
	id, _ := utils.ResolveExistingDeviceID(utils.GetTokenFromCookie(c, h.deviceCookie), c.GetHeader(constants.HeaderDeviceID))
	return id
}
