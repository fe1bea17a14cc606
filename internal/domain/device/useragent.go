package device

import "strings"

// DescribeUserAgent derives a type and a short human label ("Chrome on
// Windows") from a user agent string. The label is display-only.
func DescribeUserAgent(ua string) (Type, string) {
	lower := strings.ToLower(ua)
	if strings.TrimSpace(lower) == "" {
		return TypeUnknown, "Unknown device"
	}

	deviceType := TypeDesktop
	switch {
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"):
		deviceType = TypeTablet
	case strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"):
		deviceType = TypeTablet
	case strings.Contains(lower, "mobi"), strings.Contains(lower, "iphone"):
		deviceType = TypeMobile
	}

	return deviceType, browserName(lower) + " on " + osName(lower)
}

func browserName(ua string) string {
	switch {
	case strings.Contains(ua, "edg/"):
		return "Edge"
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "firefox/"):
		return "Firefox"
	case strings.Contains(ua, "chrome/"), strings.Contains(ua, "crios/"):
		return "Chrome"
	case strings.Contains(ua, "safari/"):
		return "Safari"
	default:
		return "Browser"
	}
}

func osName(ua string) string {
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "iOS"
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "cros"):
		return "ChromeOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	default:
		return "Unknown OS"
	}
}
