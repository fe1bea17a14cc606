package usecases

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/application/enforcement/services"
	"licenseguard/internal/domain/audit"
	"licenseguard/internal/domain/device"
	"licenseguard/internal/domain/license"
	domainservices "licenseguard/internal/domain/shared/services"
	"licenseguard/internal/infrastructure/persistence/models"
	"licenseguard/internal/infrastructure/ratelimit"
	"licenseguard/internal/infrastructure/repository"
	"licenseguard/internal/shared/authorization"
	"licenseguard/internal/shared/db"
	"licenseguard/internal/shared/logger"
)

const (
	testTenant   = "tenant-1"
	ownerDevice  = "6f1c2d3e-0000-4000-8000-000000000001"
	otherDevice  = "6f1c2d3e-0000-4000-8000-000000000002"
	officeIP     = "203.0.113.5"
	chromeOnWin  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	testMaxFails = 5
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// roleAuthorizer grants bootstrap and revoke to owners.
type roleAuthorizer struct{}

func (roleAuthorizer) CanBootstrap(_ context.Context, role authorization.UserRole) (bool, error) {
	return role == authorization.RoleOwner || role == authorization.RoleSuperAdmin, nil
}

func (roleAuthorizer) CanRevoke(ctx context.Context, role authorization.UserRole) (bool, error) {
	return roleAuthorizer{}.CanBootstrap(ctx, role)
}

// countingLicenseRepo counts reads so tests can assert the rate-limit gate
// runs before any database access.
type countingLicenseRepo struct {
	license.Repository
	mu    sync.Mutex
	reads int

	getErr     error
	checkinErr error
}

func (r *countingLicenseRepo) GetByTenantID(ctx context.Context, tenantID string) (*license.License, error) {
	r.mu.Lock()
	r.reads++
	r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.Repository.GetByTenantID(ctx, tenantID)
}

func (r *countingLicenseRepo) UpdateCheckin(ctx context.Context, id uint, at time.Time) error {
	if r.checkinErr != nil {
		return r.checkinErr
	}
	return r.Repository.UpdateCheckin(ctx, id, at)
}

func (r *countingLicenseRepo) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

type recordingMetrics struct {
	mu         sync.Mutex
	decisions  map[string]int
	trips      int
	bootstraps int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{decisions: make(map[string]int)}
}

func (m *recordingMetrics) ObserveDecision(outcome, code, _ string, _ time.Duration) {
	m.mu.Lock()
	m.decisions[outcome+":"+code]++
	m.mu.Unlock()
}

func (m *recordingMetrics) ObserveRateLimitTrip() {
	m.mu.Lock()
	m.trips++
	m.mu.Unlock()
}

func (m *recordingMetrics) ObserveBootstrap() {
	m.mu.Lock()
	m.bootstraps++
	m.mu.Unlock()
}

type testEnv struct {
	db         *gorm.DB
	licenses   *countingLicenseRepo
	devices    device.Repository
	violations audit.ViolationRepository
	entries    audit.EntryRepository
	store      *ratelimit.MemoryFailureStore
	limiter    *ratelimit.FailureLimiter
	audit      *services.AuditLogger
	clock      *testClock
	metrics    *recordingMetrics
	spans      *tracetest.SpanRecorder
	tracer     trace.Tracer
	validator  *services.DeviceBindingValidator
	uc         *EnforceUseCase
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := setupTestDB(t)
	log := logger.NewNop()
	clock := &testClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	env := &testEnv{
		db:         gdb,
		licenses:   &countingLicenseRepo{Repository: repository.NewLicenseRepository(gdb, log)},
		devices:    repository.NewDeviceRepository(gdb, log),
		violations: repository.NewViolationRepository(gdb, log),
		entries:    repository.NewAuditLogRepository(gdb, log),
		store:      ratelimit.NewMemoryFailureStore(),
		clock:      clock,
		metrics:    newRecordingMetrics(),
		spans:      tracetest.NewSpanRecorder(),
	}
	env.limiter = ratelimit.NewFailureLimiter(env.store, ratelimit.Config{
		MaxFailures:   testMaxFails,
		BlockDuration: time.Hour,
	}, clock.Now)
	env.audit = services.NewAuditLogger(env.violations, env.entries, log)

	env.validator = services.NewDeviceBindingValidator(
		env.devices,
		env.licenses,
		roleAuthorizer{},
		db.NewTransactionManager(gdb),
		5*time.Minute,
		log,
	)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(env.spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	env.tracer = tp.Tracer("test")

	env.uc = env.build(env.limiter)
	return env
}

// build wires an enforce use case over the env, with limiter swappable.
func (env *testEnv) build(limiter FailureLimiter) *EnforceUseCase {
	return NewEnforceUseCase(
		env.licenses,
		limiter,
		services.NewIPBindingValidator(),
		env.validator,
		env.audit,
		domainservices.NewFingerprintGenerator(),
		EnforceConfig{CheckinThrottle: time.Hour},
		logger.NewNop(),
	).WithMetrics(env.metrics).WithTracer(env.tracer).WithClock(env.clock.Now)
}

// failures returns the limiter count for ip and device.
func (env *testEnv) failures(t *testing.T, ip, deviceID string) int {
	t.Helper()
	entry, ok, err := env.store.Get(context.Background(), ratelimit.Key(ip, deviceID), env.clock.Now())
	require.NoError(t, err)
	if !ok {
		return 0
	}
	return entry.Count
}

// seedLicense creates an active license and then forces status if needed.
func (env *testEnv) seedLicense(t *testing.T, tenantID string, status license.Status, expiresAt *time.Time, graceDays int, allowed license.AllowedIP) *license.License {
	t.Helper()

	lic, err := license.NewLicense(tenantID, expiresAt, graceDays, allowed)
	require.NoError(t, err)
	require.NoError(t, env.licenses.Create(context.Background(), lic))

	if status != license.StatusActive {
		require.NoError(t, env.db.Model(&models.LicenseModel{}).
			Where("tenant_id = ?", tenantID).
			Update("status", string(status)).Error)
	}
	return lic
}

func (env *testEnv) daysFromNow(days int) *time.Time {
	t := env.clock.Now().Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

func request(role authorization.UserRole, deviceID, ip string) dto.EnforceRequest {
	header := http.Header{}
	header.Set("User-Agent", chromeOnWin)
	header.Set("Accept-Language", "en-US,en;q=0.9")
	return dto.EnforceRequest{
		TenantID:  testTenant,
		UserID:    "user-" + string(role),
		UserRole:  role,
		RequestIP: ip,
		DeviceID:  deviceID,
		Route:     "/api/sales",
		Method:    http.MethodGet,
		UserAgent: chromeOnWin,
		Header:    header,
	}
}

func (env *testEnv) auditCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&models.LicenseAuditLogModel{}).Count(&n).Error)
	return n
}

func (env *testEnv) violationsOf(t *testing.T, vt audit.ViolationType) []models.LicenseViolationModel {
	t.Helper()
	var rows []models.LicenseViolationModel
	require.NoError(t, env.db.Where("violation_type = ?", string(vt)).Find(&rows).Error)
	return rows
}

func (env *testEnv) licenseRow(t *testing.T) models.LicenseModel {
	t.Helper()
	var row models.LicenseModel
	require.NoError(t, env.db.Where("tenant_id = ?", testTenant).First(&row).Error)
	return row
}
