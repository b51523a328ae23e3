package lidar

import (
	"context"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// A Device is a range sensor that sweeps its surroundings and reports one measurement per ray.
type Device interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Close(ctx context.Context) error
	// Scan performs a full sweep.
	Scan(ctx context.Context, options ScanOptions) (Measurements, error)
	// Range returns the maximum distance the device can measure.
	Range(ctx context.Context) (float64, error)
	// Bounds returns the width and height of the square the device can see into.
	Bounds(ctx context.Context) (r2.Point, error)
	// AngularResolution returns the angle between neighbouring rays in degrees.
	AngularResolution(ctx context.Context) (float64, error)
}

// ScanOptions modify how a single Scan call behaves.
type ScanOptions struct {
	// Count is the number of sweeps to take; only the last is returned. Zero means one.
	Count int
	// HitsOnly drops rays that ran out of range without hitting anything.
	HitsOnly bool
}

// DeviceType identifies a kind of device that can be created from a description.
type DeviceType string

// The known device types.
const (
	DeviceTypeUnknown = DeviceType("unknown")
	DeviceTypeFake    = DeviceType("fake")
)

// DefaultRays is how many rays a sweep has when a description leaves it out.
const DefaultRays = 360

// DeviceDescription describes where a device sits and how it sweeps.
type DeviceDescription struct {
	Name     string     `json:"name" yaml:"name"`
	Type     DeviceType `json:"type,omitempty" yaml:"type,omitempty"`
	Origin   r2.Point   `json:"origin" yaml:"origin"`
	MaxRange float64    `json:"max_range" yaml:"max_range"`
	// Rays is the number of evenly spaced rays in a sweep, used when Angles is empty.
	Rays int `json:"rays,omitempty" yaml:"rays,omitempty"`
	// Angles lists explicit ray angles.
	Angles []float64 `json:"angles,omitempty" yaml:"angles,omitempty"`
	// Unit is the unit of Angles. Descriptions default to degrees.
	Unit AngleUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Validate ensures all parts of the description are valid.
func (desc *DeviceDescription) Validate(path string) error {
	if desc.Name == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if desc.MaxRange == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "max_range")
	}
	if desc.Rays < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("rays must not be negative, got %d", desc.Rays))
	}
	if _, err := desc.ScanParameters(); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	return nil
}

// ScanParameters returns the sweep this description performs.
func (desc *DeviceDescription) ScanParameters() (ScanParameters, error) {
	unit := desc.Unit
	if unit == "" {
		unit = Degrees
	}
	angles := desc.Angles
	if len(angles) == 0 {
		rays := desc.Rays
		if rays == 0 {
			rays = DefaultRays
		}
		var err error
		if angles, err = EvenlySpacedAngles(rays, unit); err != nil {
			return ScanParameters{}, err
		}
	}
	params := ScanParameters{Origin: desc.Origin, Angles: angles, Unit: unit, MaxRange: desc.MaxRange}
	if _, err := params.rays(); err != nil {
		return ScanParameters{}, err
	}
	return params, nil
}

// BestAngularResolution returns the best angular resolution from the given devices,
// along with the device and its index.
func BestAngularResolution(ctx context.Context, devices []Device) (float64, Device, int, error) {
	if len(devices) == 0 {
		return math.NaN(), nil, -1, errors.New("no devices to pick from")
	}
	best := math.Inf(1)
	deviceNum := -1
	for i, dev := range devices {
		angRes, err := dev.AngularResolution(ctx)
		if err != nil {
			return math.NaN(), nil, -1, err
		}
		if deviceNum == -1 || angRes < best {
			best = angRes
			deviceNum = i
		}
	}
	return best, devices[deviceNum], deviceNum, nil
}
