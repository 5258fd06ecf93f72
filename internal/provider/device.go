package provider

import (
	"runtime"

	"github.com/google/uuid"
)

// DeviceIdentity is the device block attached to login requests. The API
// couples issued tokens to a device, so the identity is generated once per
// client and reused for every call on that client.
type DeviceIdentity struct {
	// IDDevice is the opaque device identifier.
	IDDevice string
	// UUID is the formatted device UUID.
	UUID string
	// IndigitallUUID is the push-platform identifier.
	IndigitallUUID string
	// Name is the reported device name.
	Name string
	// Brand is the reported device brand.
	Brand string
	// Type is the reported device type.
	Type string
	// OSVersion is the reported operating system version.
	OSVersion string
	// Version is the reported client version.
	Version string
}

// newDeviceIdentity generates a fresh device block.
func newDeviceIdentity() DeviceIdentity {
	return DeviceIdentity{
		IDDevice:       uuid.NewString(),
		UUID:           uuid.NewString(),
		IndigitallUUID: uuid.NewString(),
		Name:           "my-verisure",
		Brand:          "go-client",
		Type:           "",
		OSVersion:      runtime.GOOS,
		Version:        "N/A",
	}
}
