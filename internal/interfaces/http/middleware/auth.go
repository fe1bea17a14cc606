package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"licenseguard/internal/infrastructure/auth"
	"licenseguard/internal/shared/constants"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService  *auth.JWTService
	tokenCookie string
	logger      logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, tokenCookie string, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		tokenCookie: tokenCookie,
		logger:      logger,
	}
}

// RequireAuth verifies the access token and publishes user_id, tenant_id and
// user_role on the context for the license middleware.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try to get token from cookie first
		token := utils.GetTokenFromCookie(c, m.tokenCookie)

		if token == "" {
			authHeader := c.GetHeader(constants.HeaderAuthorization)
			if authHeader == "" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
				c.Abort()
				return
			}

			token = parts[1]
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyTenantID, claims.TenantID)
		c.Set(constants.ContextKeyUserRole, string(claims.Role))

		c.Next()
	}
}
