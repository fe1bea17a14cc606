package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"licenseguard/internal/application/enforcement/services"
	domainservices "licenseguard/internal/domain/shared/services"
	"licenseguard/internal/infrastructure/auth"
	"licenseguard/internal/infrastructure/config"
	"licenseguard/internal/infrastructure/metrics"
	"licenseguard/internal/infrastructure/permission"
	"licenseguard/internal/infrastructure/ratelimit"
	"licenseguard/internal/infrastructure/scheduler"
	"licenseguard/internal/interfaces/http/middleware"
	"licenseguard/internal/shared/biztime"
	sharedConfig "licenseguard/internal/shared/config"
	"licenseguard/internal/shared/db"
	"licenseguard/internal/shared/logger"
	"licenseguard/internal/shared/utils"
)

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	// Initialize all repositories
	c.repos = newRepositories(c.db, log)

	// Failure counters live in Redis only when instances must share them
	var store ratelimit.FailureStore
	switch cfg.Enforcement.RateLimit.Backend {
	case sharedConfig.RateLimitBackendRedis:
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		store = ratelimit.NewRedisFailureStore(client, cfg.Enforcement.RateLimit.KeyPrefix)
	default:
		store = ratelimit.NewMemoryFailureStore()
	}
	c.limiter = ratelimit.NewFailureLimiter(store, ratelimit.Config{
		MaxFailures:   cfg.Enforcement.RateLimit.MaxFailures,
		BlockDuration: cfg.Enforcement.RateLimit.BlockDuration,
	}, biztime.NowUTC)

	if cfg.Metrics.Enabled {
		c.metrics = metrics.New(cfg.Metrics.Namespace)
	}
	c.tracerProvider = sdktrace.NewTracerProvider()

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	return nil
}

func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

func (c *Container) initEnforcement() error {
	cfg := c.cfg.Enforcement
	log := c.log

	enforcer, err := permission.NewEnforcer(c.db, cfg.PermissionModelFile, log)
	if err != nil {
		return err
	}
	if err := permission.SeedDefaultPolicies(enforcer); err != nil {
		return fmt.Errorf("failed to seed device policies: %w", err)
	}
	c.deviceAuthorizer = permission.NewDeviceAuthorizer(enforcer)

	c.routePolicy, err = services.LoadRoutePolicy(cfg.RoutePolicyFile)
	if err != nil {
		return err
	}

	c.ipValidator = services.NewIPBindingValidator()
	c.deviceValidator = services.NewDeviceBindingValidator(
		c.repos.deviceRepo,
		c.repos.licenseRepo,
		c.deviceAuthorizer,
		db.NewTransactionManager(c.db),
		cfg.DeviceSeenThrottle,
		log.Named("device"),
	)
	c.auditLogger = services.NewAuditLogger(c.repos.violationRepo, c.repos.auditLogRepo, log.Named("audit"))
	c.fingerprints = domainservices.NewFingerprintGenerator()
	return nil
}

func (c *Container) initMiddlewares() {
	cfg := c.cfg

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, cfg.Auth.AccessTokenCookie, c.log)
	c.licenseMiddleware = middleware.NewLicenseMiddleware(c.ucs.enforceUC, middleware.LicenseMiddlewareConfig{
		DeviceCookie: utils.DeviceCookie{
			Name:   cfg.Enforcement.DeviceCookieName,
			MaxAge: cfg.Enforcement.DeviceCookieMaxAge,
			Cookie: cfg.Auth.Cookie,
		},
		TrustRemoteAddr:     cfg.Enforcement.TrustRemoteAddr,
		NotFoundAsForbidden: cfg.Enforcement.NotFoundAsForbidden,
	}, c.log.Named("license"))
}

// initScheduler registers the failure-counter sweep. Redis expires its own
// keys, so the job is a no-op there but stays registered for the metric.
func (c *Container) initScheduler() error {
	mgr, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	sweep := scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
		removed, err := c.limiter.Sweep(ctx)
		if err != nil {
			return 0, err
		}
		if c.metrics != nil {
			c.metrics.ObserveSweep(removed)
		}
		return removed, nil
	})
	if err := mgr.RegisterRateLimitSweep(sweep, c.cfg.Enforcement.RateLimit.SweepInterval); err != nil {
		return fmt.Errorf("failed to register rate limit sweep: %w", err)
	}

	c.schedulerManager = mgr
	return nil
}
