package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeUserAgent(t *testing.T) {
	tests := []struct {
		ua        string
		wantType  Type
		wantLabel string
	}{
		{
			ua:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			wantType:  TypeDesktop,
			wantLabel: "Chrome on Windows",
		},
		{
			ua:        "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			wantType:  TypeMobile,
			wantLabel: "Safari on iOS",
		},
		{
			ua:        "Mozilla/5.0 (Linux; Android 14; SM-X710) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			wantType:  TypeTablet,
			wantLabel: "Chrome on Android",
		},
		{
			ua:        "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) Gecko/20100101 Firefox/125.0",
			wantType:  TypeDesktop,
			wantLabel: "Firefox on macOS",
		},
		{
			ua:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 Edg/124.0",
			wantType:  TypeDesktop,
			wantLabel: "Edge on Windows",
		},
		{
			ua:        "",
			wantType:  TypeUnknown,
			wantLabel: "Unknown device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			gotType, gotLabel := DescribeUserAgent(tt.ua)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantLabel, gotLabel)
		})
	}
}
