package services

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"licenseguard/internal/shared/constants"
)

// fingerprintSeparator joins attributes so "a|bc" and "ab|c" hash differently.
const fingerprintSeparator = "|"

// FingerprintGenerator hashes coarse client attributes for audit correlation.
// A fingerprint is never an enforcement key on its own.
type FingerprintGenerator interface {
	Generate(userAgent string, header http.Header) string
}

type DefaultFingerprintGenerator struct{}

func NewFingerprintGenerator() FingerprintGenerator {
	return &DefaultFingerprintGenerator{}
}

// Generate returns the SHA-256 hex digest of user agent, declared platform and
// preferred language, in that order.
func (g *DefaultFingerprintGenerator) Generate(userAgent string, header http.Header) string {
	parts := []string{
		strings.TrimSpace(userAgent),
		platform(header),
		preferredLanguage(header),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, fingerprintSeparator)))
	return hex.EncodeToString(sum[:])
}

func platform(h http.Header) string {
	if h == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(h.Get(constants.HeaderSecCHUAPlatform)), `"`)
}

// preferredLanguage returns the highest-weighted Accept-Language tag, or ""
// when the header is missing or unparseable.
func preferredLanguage(h http.Header) string {
	if h == nil {
		return ""
	}
	raw := h.Get(constants.HeaderAcceptLanguage)
	if raw == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}
