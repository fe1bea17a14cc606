package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"licenseguard/internal/application/enforcement/services"
	"licenseguard/internal/domain/license"
	"licenseguard/internal/shared/constants"
	"licenseguard/internal/shared/utils"
)

const (
	codeReadOnly = "LICENSE_READ_ONLY"
	codeBlocked  = "LICENSE_INACTIVE"
)

// ReadOnlyGate applies the route policy to the access level LicenseMiddleware
// stored. Requests without a level pass; the gate never widens access.
func ReadOnlyGate(policy *services.RoutePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.Get(constants.ContextKeyAccessLevel)
		if !ok {
			c.Next()
			return
		}
		level, _ := raw.(license.AccessLevel)

		switch policy.Classify(level, c.Request.Method, c.Request.URL.Path) {
		case services.RouteRejectReadOnly:
			utils.AbortWithDenial(c, http.StatusForbidden, codeReadOnly,
				"Your license is read-only. Renew it to make changes.",
				map[string]any{"access_level": level.String()})
			return
		case services.RouteRejectBlocked:
			utils.AbortWithDenial(c, http.StatusForbidden, codeBlocked,
				"Your license does not allow access to this resource.",
				map[string]any{"access_level": level.String()})
			return
		}

		c.Next()
	}
}
