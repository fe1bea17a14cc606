package constants

const (
	// Environment constants
	EnvProduction = "production"

	// HTTP Headers
	HeaderAuthorization        = "Authorization"
	HeaderXRequestID           = "X-Request-ID"
	HeaderXForwardedFor        = "X-Forwarded-For"
	HeaderXRealIP              = "X-Real-IP"
	HeaderCFConnectingIP       = "CF-Connecting-IP"
	HeaderVercelForwardedFor   = "X-Vercel-Forwarded-For"
	HeaderAcceptLanguage       = "Accept-Language"
	HeaderSecCHUAPlatform      = "Sec-CH-UA-Platform"
	HeaderDeviceID             = "X-Device-ID"
	HeaderDeviceLabel          = "X-Device-Label"
	HeaderLicenseAccessLevel   = "X-License-Access-Level"
	HeaderLicenseGraceDaysLeft = "X-License-Grace-Days-Remaining"

	// Context keys
	ContextKeyUserID      = "user_id"
	ContextKeyTenantID    = "tenant_id"
	ContextKeyUserRole    = "user_role"
	ContextKeyDeviceID    = "device_id"
	ContextKeyAccessLevel = "license_access_level"
	ContextKeyDecision    = "license_decision"

	// Database table names
	TableLicenses            = "licenses"
	TableDeviceRegistrations = "device_registrations"
	TableLicenseViolations   = "license_violations"
	TableLicenseAuditLogs    = "license_audit_logs"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
)
