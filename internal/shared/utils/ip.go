package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"licenseguard/internal/shared/constants"
)

// clientIPHeaders are consulted in order. Only X-Forwarded-For may carry a
// chain; the others are single-valued.
var clientIPHeaders = []string{
	constants.HeaderXForwardedFor,
	constants.HeaderXRealIP,
	constants.HeaderCFConnectingIP,
	constants.HeaderVercelForwardedFor,
}

// ExtractClientIP returns the first public address found in the proxy headers
// or "" when none is usable. Private, loopback, link-local and unspecified
// addresses are skipped because they identify a hop, not the client.
func ExtractClientIP(h http.Header) string {
	for _, name := range clientIPHeaders {
		raw := h.Get(name)
		if raw == "" {
			continue
		}
		for _, part := range strings.Split(raw, ",") {
			addr, ok := parseHostIP(part)
			if !ok || !isPublicAddr(addr) {
				continue
			}
			return addr.String()
		}
	}
	return ""
}

// RemoteAddrIP parses the host part of an http.Request.RemoteAddr.
func RemoteAddrIP(remoteAddr string) string {
	addr, ok := parseHostIP(remoteAddr)
	if !ok {
		return ""
	}
	return addr.String()
}

// NormalizeIP trims whitespace, drops IPv4-mapped IPv6 prefixes and returns
// the canonical textual form. Unparseable input is returned trimmed so the
// function stays idempotent.
func NormalizeIP(ip string) string {
	s := strings.TrimSpace(ip)
	if s == "" {
		return ""
	}
	addr, ok := parseHostIP(s)
	if !ok {
		return s
	}
	return addr.String()
}

// CompareIPs reports whether both addresses are present and equal after
// normalization.
func CompareIPs(a, b string) bool {
	na, nb := NormalizeIP(a), NormalizeIP(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

func parseHostIP(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	if addr, err := netip.ParseAddr(strings.Trim(s, "[]")); err == nil {
		return addr.Unmap().WithZone(""), true
	}
	// "1.2.3.4:5678" or "[::1]:5678"
	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return netip.Addr{}, false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap().WithZone(""), true
}

func isPublicAddr(addr netip.Addr) bool {
	return addr.IsValid() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsUnspecified()
}
