// Package fake provides a simulated lidar that sweeps a static scene of obstacles.
package fake

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/lidarsim/lidar"
	"go.viam.com/lidarsim/spatialmath"
	"go.viam.com/lidarsim/utils"
)

func init() {
	lidar.RegisterDeviceType(lidar.DeviceTypeFake, lidar.DeviceTypeRegistration{
		New: func(ctx context.Context, desc lidar.DeviceDescription, world []spatialmath.Geometry, logger golog.Logger) (lidar.Device, error) {
			return New(desc, world, logger)
		},
	})
}

// Device is a noiseless simulated lidar fixed at a point in a static world.
type Device struct {
	name   string
	params lidar.ScanParameters
	world  []spatialmath.Geometry
	logger golog.Logger

	mu      sync.Mutex
	started bool
	closed  bool
}

// New returns a stopped device sweeping the given world as described by desc.
func New(desc lidar.DeviceDescription, world []spatialmath.Geometry, logger golog.Logger) (*Device, error) {
	if err := desc.Validate("fake"); err != nil {
		return nil, err
	}
	params, err := desc.ScanParameters()
	if err != nil {
		return nil, err
	}
	for i, o := range world {
		if o == nil {
			return nil, errors.Wrapf(spatialmath.ErrInvalidGeometry, "obstacle %d is nil", i)
		}
	}
	return &Device{name: desc.Name, params: params, world: world, logger: logger}, nil
}

// Name returns the name the device was described with.
func (d *Device) Name() string {
	return d.name
}

// Origin returns where the device sits.
func (d *Device) Origin() r2.Point {
	return d.params.Origin
}

// ScanParameters returns the sweep the device performs.
func (d *Device) ScanParameters() lidar.ScanParameters {
	return d.params
}

// Start allows the device to scan.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.Errorf("device %q is closed", d.name)
	}
	d.started = true
	d.logger.Debugw("started", "name", d.name, "origin", d.params.Origin, "rays", len(d.params.Angles))
	return nil
}

// Stop pauses the device; it can be started again.
func (d *Device) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
	return nil
}

// Close stops the device for good.
func (d *Device) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
	d.closed = true
	return nil
}

func (d *Device) isStarted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// Scan sweeps the world options.Count times and returns the last sweep. The world never changes so
// every sweep is identical.
func (d *Device) Scan(ctx context.Context, options lidar.ScanOptions) (lidar.Measurements, error) {
	if !d.isStarted() {
		return nil, errors.Wrapf(lidar.ErrNotStarted, "cannot scan with %q", d.name)
	}
	count := options.Count
	if count <= 0 {
		count = 1
	}
	var measurements lidar.Measurements
	for i := 0; i < count; i++ {
		var err error
		measurements, err = lidar.Scan(ctx, d.params, d.world)
		if err != nil {
			return nil, err
		}
	}
	if options.HitsOnly {
		measurements = lo.Filter(measurements, func(m *lidar.Measurement, _ int) bool {
			return m.Hit()
		})
	}
	d.logger.Debugw("scanned", "name", d.name, "sweeps", count, "measurements", len(measurements))
	return measurements, nil
}

// Range returns the maximum range of the device.
func (d *Device) Range(ctx context.Context) (float64, error) {
	return d.params.MaxRange, nil
}

// Bounds returns the square the device can see into.
func (d *Device) Bounds(ctx context.Context) (r2.Point, error) {
	side := 2 * d.params.MaxRange
	return r2.Point{X: side, Y: side}, nil
}

// AngularResolution returns the smallest angle in degrees between two neighbouring rays, wrapping
// around the full turn. A sweep with a single ray has a resolution of a full turn.
func (d *Device) AngularResolution(ctx context.Context) (float64, error) {
	degrees := make([]float64, 0, len(d.params.Angles))
	for _, angle := range d.params.Angles {
		rad, err := d.params.Unit.ToRadians(angle)
		if err != nil {
			return math.NaN(), err
		}
		degrees = append(degrees, utils.ModAngDeg(utils.RadToDeg(rad)))
	}
	if len(degrees) < 2 {
		return 360, nil
	}
	sort.Float64s(degrees)
	best := 360 - degrees[len(degrees)-1] + degrees[0]
	for i := 1; i < len(degrees); i++ {
		if gap := degrees[i] - degrees[i-1]; gap < best {
			best = gap
		}
	}
	return best, nil
}
