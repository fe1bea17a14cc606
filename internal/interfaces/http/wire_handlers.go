package http

import (
	"licenseguard/internal/interfaces/http/handlers"
)

// allHandlers holds the HTTP handlers mounted by SetupRoutes.
type allHandlers struct {
	licenseHandler *handlers.LicenseHandler
}

func (c *Container) initHandlers() {
	c.hdlrs = &allHandlers{
		licenseHandler: handlers.NewLicenseHandler(
			c.ucs.licenseStatus,
			c.ucs.activeDeviceUC,
			c.ucs.revokeDeviceUC,
			c.cfg.Enforcement.DeviceCookieName,
			c.log,
		),
	}
}
