package utils

import (
	"fmt"
	"net/netip"
	"strings"
)

// MaskIP hides the host part of an address for user-facing messages.
// Example: "203.0.113.5" -> "203.0.x.x", "2001:db8:1::5" -> "2001:db8:x:x"
func MaskIP(ip string) string {
	s := NormalizeIP(ip)
	if s == "" {
		return ""
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return "x.x.x.x"
	}
	if addr.Is4() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.x.x", b[0], b[1])
	}
	b := addr.As16()
	return fmt.Sprintf("%x:%x:x:x", uint16(b[0])<<8|uint16(b[1]), uint16(b[2])<<8|uint16(b[3]))
}

// MaskDeviceID keeps only the first segment of an identifier.
// Example: "3f2a9c1e-..." -> "3f2a9c1e-****"
func MaskDeviceID(id string) string {
	if id == "" {
		return ""
	}
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i] + "-****"
	}
	if len(id) <= 4 {
		return "****"
	}
	return id[:4] + "****"
}
