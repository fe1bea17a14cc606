package device

import "errors"

var (
	// ErrActiveDeviceExists is returned by CreateActive when another active
	// registration already holds the tenant's slot.
	ErrActiveDeviceExists = errors.New("tenant already has an active device")

	// ErrNoActiveDevice is returned when a tenant has no active registration.
	ErrNoActiveDevice = errors.New("no active device registered")

	ErrDeviceIDRequired = errors.New("device ID is required")
)
