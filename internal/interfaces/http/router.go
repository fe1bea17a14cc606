package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"licenseguard/internal/interfaces/http/middleware"

	_ "licenseguard/docs"
)

// SetupRoutes registers middleware and the license API on the engine.
func (c *Container) SetupRoutes() {
	var observer middleware.HTTPObserver
	if c.metrics != nil {
		observer = c.metrics
	}

	c.engine.Use(middleware.Logger(c.log, observer))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	c.engine.GET("/health", c.hdlrs.licenseHandler.HealthCheck)

	if c.metrics != nil {
		c.engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))
	}

	// Status and device endpoints are reachable whatever the license state so
	// a locked-out tenant can still see why.
	license := c.engine.Group("/api/license")
	license.Use(c.authMiddleware.RequireAuth())
	{
		license.GET("/status", c.hdlrs.licenseHandler.GetStatus)
		license.GET("/device", c.hdlrs.licenseHandler.GetDevice)
		license.DELETE("/device", c.hdlrs.licenseHandler.RevokeDevice)
		license.GET("/check", c.licenseMiddleware.Enforce(), c.hdlrs.licenseHandler.Check)
	}
}

// ProtectedGroup returns a group whose routes pass authentication, license
// enforcement and the read-only gate. Host applications mount their business
// routes here.
func (c *Container) ProtectedGroup(relativePath string) *gin.RouterGroup {
	return c.engine.Group(relativePath,
		c.authMiddleware.RequireAuth(),
		c.licenseMiddleware.Enforce(),
		middleware.ReadOnlyGate(c.routePolicy),
	)
}
