package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"licenseguard/internal/shared/config"
	"licenseguard/internal/shared/constants"
)

// DeviceIDSource records where a resolved device identifier came from.
type DeviceIDSource string

const (
	DeviceIDFromCookie    DeviceIDSource = "cookie"
	DeviceIDFromHeader    DeviceIDSource = "header"
	DeviceIDFromGenerated DeviceIDSource = "generated"
)

// DeviceCookie describes how the device identifier cookie is issued.
type DeviceCookie struct {
	Name   string
	MaxAge int
	Cookie config.CookieConfig
}

// ResolveDeviceID reconciles the server cookie with the client-side copy sent
// in a header. The cookie always wins; the header is only adopted when no
// cookie exists and it is a well-formed UUID. Otherwise a new UUIDv4 is minted.
func ResolveDeviceID(cookieValue, headerValue string) (string, DeviceIDSource) {
	if id, ok := parseDeviceID(cookieValue); ok {
		return id, DeviceIDFromCookie
	}
	if id, ok := parseDeviceID(headerValue); ok {
		return id, DeviceIDFromHeader
	}
	return uuid.NewString(), DeviceIDFromGenerated
}

// ResolveExistingDeviceID is ResolveDeviceID without minting: it returns
// false when neither source carries a valid identifier.
func ResolveExistingDeviceID(cookieValue, headerValue string) (string, bool) {
	if id, ok := parseDeviceID(cookieValue); ok {
		return id, true
	}
	return parseDeviceID(headerValue)
}

func parseDeviceID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// GetOrCreateDeviceID resolves the per-installation identifier for the request
// and (re)issues it as an HttpOnly cookie so the expiry keeps sliding.
func GetOrCreateDeviceID(c *gin.Context, dc DeviceCookie) (string, DeviceIDSource) {
	cookieValue, _ := c.Cookie(dc.Name)
	id, source := ResolveDeviceID(cookieValue, c.GetHeader(constants.HeaderDeviceID))

	c.SetSameSite(parseSameSite(dc.Cookie.SameSite))
	c.SetCookie(
		dc.Name,
		id,
		dc.MaxAge,
		cookiePath(dc.Cookie.Path),
		dc.Cookie.Domain,
		dc.Cookie.Secure,
		true, // HttpOnly
	)
	return id, source
}

// GetTokenFromCookie retrieves a token cookie, returning "" when absent.
func GetTokenFromCookie(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err == nil && token != "" {
		return token
	}
	return ""
}

func cookiePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// parseSameSite converts string to http.SameSite
func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
