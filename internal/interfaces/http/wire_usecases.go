package http

import (
	"licenseguard/internal/application/enforcement/usecases"
)

// allUseCases groups the use cases handlers and middleware depend on.
type allUseCases struct {
	enforceUC      *usecases.EnforceUseCase
	licenseStatus  *usecases.GetLicenseStatusUseCase
	activeDeviceUC *usecases.GetActiveDeviceUseCase
	revokeDeviceUC *usecases.RevokeDeviceUseCase
}

func (c *Container) initUseCases() {
	cfg := c.cfg.Enforcement
	log := c.log
	repos := c.repos

	enforceUC := usecases.NewEnforceUseCase(
		repos.licenseRepo,
		c.limiter,
		c.ipValidator,
		c.deviceValidator,
		c.auditLogger,
		c.fingerprints,
		usecases.EnforceConfig{
			CheckinThrottle: cfg.CheckinThrottle,
		},
		log.Named("enforcement"),
	).WithTracer(c.tracerProvider.Tracer("licenseguard/enforcement"))
	if c.metrics != nil {
		enforceUC.WithMetrics(c.metrics)
	}

	c.ucs = &allUseCases{
		enforceUC:      enforceUC,
		licenseStatus:  usecases.NewGetLicenseStatusUseCase(repos.licenseRepo, repos.deviceRepo, log),
		activeDeviceUC: usecases.NewGetActiveDeviceUseCase(repos.deviceRepo, log),
		revokeDeviceUC: usecases.NewRevokeDeviceUseCase(repos.deviceRepo, c.deviceAuthorizer, c.auditLogger, log),
	}
}
