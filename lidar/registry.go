package lidar

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/lidarsim/spatialmath"
)

// A DeviceTypeRegistration describes how to create a device of a given type.
type DeviceTypeRegistration struct {
	// New builds a device from its description. world holds the obstacles a simulated device
	// sweeps; it is shared between devices and must not be modified.
	New func(ctx context.Context, desc DeviceDescription, world []spatialmath.Geometry, logger golog.Logger) (Device, error)
}

var deviceTypeRegistrations = map[DeviceType]DeviceTypeRegistration{}

// RegisterDeviceType registers how to create a device of the given type. Registering the same
// type twice or without a constructor panics.
func RegisterDeviceType(deviceType DeviceType, reg DeviceTypeRegistration) {
	if reg.New == nil {
		panic(errors.Errorf("cannot register device type %q without a constructor", deviceType))
	}
	if _, ok := deviceTypeRegistrations[deviceType]; ok {
		panic(errors.Errorf("device type %q already registered", deviceType))
	}
	deviceTypeRegistrations[deviceType] = reg
}

// DeviceTypeRegistrationLookup looks up a device type registration by its type.
func DeviceTypeRegistrationLookup(deviceType DeviceType) *DeviceTypeRegistration {
	if reg, ok := deviceTypeRegistrations[deviceType]; ok {
		return &reg
	}
	return nil
}

// CreateDevice creates a single device from its description.
func CreateDevice(
	ctx context.Context,
	desc DeviceDescription,
	world []spatialmath.Geometry,
	logger golog.Logger,
) (Device, error) {
	reg := DeviceTypeRegistrationLookup(desc.Type)
	if reg == nil {
		return nil, errors.Errorf("do not know how to create a %q device", desc.Type)
	}
	return reg.New(ctx, desc, world, logger)
}

// CreateDevices creates a device for every description. If any of them fails, the devices
// created so far are closed.
func CreateDevices(
	ctx context.Context,
	descs []DeviceDescription,
	world []spatialmath.Geometry,
	logger golog.Logger,
) ([]Device, error) {
	devices := make([]Device, 0, len(descs))
	for _, desc := range descs {
		dev, err := CreateDevice(ctx, desc, world, logger)
		if err != nil {
			for _, created := range devices {
				err = multierr.Combine(err, created.Close(ctx))
			}
			return nil, errors.Wrapf(err, "error creating device %q", desc.Name)
		}
		devices = append(devices, dev)
	}
	return devices, nil
}
