package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"

	"licenseguard/internal/application/enforcement/services"
	domainservices "licenseguard/internal/domain/shared/services"
	"licenseguard/internal/infrastructure/auth"
	"licenseguard/internal/infrastructure/config"
	"licenseguard/internal/infrastructure/metrics"
	"licenseguard/internal/infrastructure/permission"
	"licenseguard/internal/infrastructure/ratelimit"
	"licenseguard/internal/infrastructure/scheduler"
	"licenseguard/internal/interfaces/http/middleware"
	"licenseguard/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and background jobs. It wires everything together and provides
// Shutdown() for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware    *middleware.AuthMiddleware
	licenseMiddleware *middleware.LicenseMiddleware

	// Enforcement services
	jwtSvc           *auth.JWTService
	limiter          *ratelimit.FailureLimiter
	deviceAuthorizer *permission.DeviceAuthorizer
	ipValidator      *services.IPBindingValidator
	deviceValidator  *services.DeviceBindingValidator
	auditLogger      *services.AuditLogger
	fingerprints     domainservices.FingerprintGenerator
	routePolicy      *services.RoutePolicy

	// Observability
	metrics        *metrics.Metrics
	tracerProvider *sdktrace.TracerProvider

	// Background jobs
	schedulerManager *scheduler.SchedulerManager
}

func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	if err := c.initEnforcement(); err != nil {
		c.Shutdown(context.Background())
		return nil, err
	}

	c.initUseCases()

	c.initMiddlewares()

	c.initHandlers()

	if err := c.initScheduler(); err != nil {
		c.Shutdown(context.Background())
		return nil, err
	}

	c.SetupRoutes()

	return c, nil
}

// Engine returns the Gin engine with all routes registered.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// StartBackgroundJobs starts the scheduler. Call once the server is listening.
func (c *Container) StartBackgroundJobs() {
	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

// Shutdown stops background jobs and releases connections. The database is
// owned by the caller and is not closed here.
func (c *Container) Shutdown(ctx context.Context) {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("failed to stop scheduler", "error", err)
		}
	}

	if c.tracerProvider != nil {
		if err := c.tracerProvider.Shutdown(ctx); err != nil {
			c.log.Warnw("failed to shut down tracer provider", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close Redis client", "error", err)
		}
	}
}
