package services

import (
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"licenseguard/internal/domain/license"
)

//go:embed routepolicy.yaml
var defaultRoutePolicy []byte

// RouteVerdict is the gate outcome for one route at one access level.
type RouteVerdict int

const (
	RoutePass RouteVerdict = iota
	RouteRejectReadOnly
	RouteRejectBlocked
)

func (v RouteVerdict) String() string {
	switch v {
	case RouteRejectReadOnly:
		return "reject_read_only"
	case RouteRejectBlocked:
		return "reject_blocked"
	default:
		return "pass"
	}
}

type routePolicyFile struct {
	AlwaysAllowed     []string `yaml:"always_allowed"`
	ReadOnlyProtected []string `yaml:"read_only_protected"`
	WriteMethods      []string `yaml:"write_methods"`
}

// RoutePolicy gates routes by access level using static prefix lists.
type RoutePolicy struct {
	alwaysAllowed     []string
	readOnlyProtected []string
	writeMethods      map[string]struct{}
}

// LoadRoutePolicy reads the policy from file, or the embedded default when
// file is empty.
func LoadRoutePolicy(file string) (*RoutePolicy, error) {
	raw := defaultRoutePolicy
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read route policy: %w", err)
		}
		raw = b
	}
	return ParseRoutePolicy(raw)
}

func ParseRoutePolicy(raw []byte) (*RoutePolicy, error) {
	var f routePolicyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse route policy: %w", err)
	}

	p := &RoutePolicy{writeMethods: make(map[string]struct{})}

	var err error
	if p.alwaysAllowed, err = normalizePrefixes(f.AlwaysAllowed); err != nil {
		return nil, err
	}
	if p.readOnlyProtected, err = normalizePrefixes(f.ReadOnlyProtected); err != nil {
		return nil, err
	}

	methods := f.WriteMethods
	if len(methods) == 0 {
		methods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
	}
	for _, m := range methods {
		p.writeMethods[strings.ToUpper(strings.TrimSpace(m))] = struct{}{}
	}
	return p, nil
}

func normalizePrefixes(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		p := strings.TrimSpace(raw)
		if !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("route prefix %q must start with /", raw)
		}
		out = append(out, cleanPath(p))
	}
	return out, nil
}

// Classify decides whether a request may reach its handler.
func (p *RoutePolicy) Classify(level license.AccessLevel, method, requestPath string) RouteVerdict {
	requestPath = cleanPath(requestPath)

	switch level {
	case license.AccessFull:
		return RoutePass
	case license.AccessReadOnly:
		if !p.IsWrite(method) || matchAny(p.alwaysAllowed, requestPath) {
			return RoutePass
		}
		if matchAny(p.readOnlyProtected, requestPath) {
			return RouteRejectReadOnly
		}
		return RoutePass
	default:
		// BLOCKED and anything unrecognised
		if matchAny(p.alwaysAllowed, requestPath) {
			return RoutePass
		}
		return RouteRejectBlocked
	}
}

func (p *RoutePolicy) IsWrite(method string) bool {
	_, ok := p.writeMethods[strings.ToUpper(method)]
	return ok
}

func matchAny(prefixes []string, requestPath string) bool {
	for _, prefix := range prefixes {
		if prefix == "/" || requestPath == prefix || strings.HasPrefix(requestPath, prefix+"/") {
			return true
		}
	}
	return false
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
