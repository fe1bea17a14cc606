package permission

import (
	"context"
	"fmt"

	"licenseguard/internal/shared/authorization"
)

// DefaultBootstrapRoles may register the first device of a tenant and
// release the active one.
var DefaultBootstrapRoles = []authorization.UserRole{
	authorization.RoleOwner,
	authorization.RoleSuperAdmin,
}

// SeedDefaultPolicies grants device bootstrap and revoke to
// DefaultBootstrapRoles. Existing rules are left alone so operators can
// extend the list.
func SeedDefaultPolicies(e *Enforcer) error {
	for _, role := range DefaultBootstrapRoles {
		for _, action := range []string{ActionBootstrap, ActionRevoke} {
			if err := e.AddPolicy(role.String(), ResourceDevice, action); err != nil {
				return fmt.Errorf("failed to seed device policy %s for %s: %w", action, role, err)
			}
		}
	}

	e.logger.Infow("bootstrap permissions initialized", "roles", len(DefaultBootstrapRoles))
	return nil
}

// DeviceAuthorizer answers the device-management questions enforcement asks.
type DeviceAuthorizer struct {
	enforcer *Enforcer
}

func NewDeviceAuthorizer(e *Enforcer) *DeviceAuthorizer {
	return &DeviceAuthorizer{enforcer: e}
}

// CanBootstrap reports whether role may register a tenant's first device.
func (a *DeviceAuthorizer) CanBootstrap(_ context.Context, role authorization.UserRole) (bool, error) {
	return a.enforcer.Enforce(role.String(), ResourceDevice, ActionBootstrap)
}

// CanRevoke reports whether role may release the tenant's active device.
func (a *DeviceAuthorizer) CanRevoke(_ context.Context, role authorization.UserRole) (bool, error) {
	return a.enforcer.Enforce(role.String(), ResourceDevice, ActionRevoke)
}
