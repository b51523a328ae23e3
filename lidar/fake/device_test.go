package fake

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/lidarsim/lidar"
	"go.viam.com/lidarsim/spatialmath"
)

func testWorld(t *testing.T) []spatialmath.Geometry {
	t.Helper()
	c, err := spatialmath.NewCircle(r2.Point{X: 5}, 1, "circle")
	test.That(t, err, test.ShouldBeNil)
	s, err := spatialmath.NewSegment(r2.Point{X: -3, Y: -1}, r2.Point{X: -3, Y: 1}, "wall")
	test.That(t, err, test.ShouldBeNil)
	return []spatialmath.Geometry{c, s}
}

func TestNew(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := New(lidar.DeviceDescription{MaxRange: 10}, nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "name")

	_, err = New(lidar.DeviceDescription{Name: "front", MaxRange: 10}, []spatialmath.Geometry{nil}, logger)
	test.That(t, errors.Is(err, spatialmath.ErrInvalidGeometry), test.ShouldBeTrue)

	dev, err := New(lidar.DeviceDescription{Name: "front", Origin: r2.Point{X: 1}, MaxRange: 10}, testWorld(t), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dev.Name(), test.ShouldEqual, "front")
	test.That(t, dev.Origin(), test.ShouldResemble, r2.Point{X: 1})
	test.That(t, len(dev.ScanParameters().Angles), test.ShouldEqual, lidar.DefaultRays)
}

func TestRegistered(t *testing.T) {
	logger := golog.NewTestLogger(t)
	dev, err := lidar.CreateDevice(context.Background(), lidar.DeviceDescription{
		Name:     "front",
		Type:     lidar.DeviceTypeFake,
		MaxRange: 10,
	}, testWorld(t), logger)
	test.That(t, err, test.ShouldBeNil)
	_, ok := dev.(*Device)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestDeviceLifecycle(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	dev, err := New(lidar.DeviceDescription{Name: "front", MaxRange: 10, Rays: 4}, testWorld(t), logger)
	test.That(t, err, test.ShouldBeNil)

	_, err = dev.Scan(ctx, lidar.ScanOptions{})
	test.That(t, errors.Is(err, lidar.ErrNotStarted), test.ShouldBeTrue)

	test.That(t, dev.Start(ctx), test.ShouldBeNil)
	ms, err := dev.Scan(ctx, lidar.ScanOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(ms), test.ShouldEqual, 4)

	test.That(t, dev.Stop(ctx), test.ShouldBeNil)
	_, err = dev.Scan(ctx, lidar.ScanOptions{})
	test.That(t, errors.Is(err, lidar.ErrNotStarted), test.ShouldBeTrue)

	test.That(t, dev.Start(ctx), test.ShouldBeNil)
	test.That(t, dev.Close(ctx), test.ShouldBeNil)
	_, err = dev.Scan(ctx, lidar.ScanOptions{})
	test.That(t, errors.Is(err, lidar.ErrNotStarted), test.ShouldBeTrue)
	test.That(t, dev.Start(ctx), test.ShouldNotBeNil)
}

func TestDeviceScan(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	dev, err := New(lidar.DeviceDescription{Name: "front", MaxRange: 10, Rays: 4}, testWorld(t), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dev.Start(ctx), test.ShouldBeNil)

	ms, err := dev.Scan(ctx, lidar.ScanOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ms.Distances(), test.ShouldResemble, []float64{4, 10, 3, 10})
	test.That(t, ms[0].HitLabel(), test.ShouldEqual, "circle")
	test.That(t, ms[2].HitLabel(), test.ShouldEqual, "wall")
	test.That(t, ms[1].Angle(), test.ShouldEqual, 90)

	repeated, err := dev.Scan(ctx, lidar.ScanOptions{Count: 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, repeated.Distances(), test.ShouldResemble, ms.Distances())

	hits, err := dev.Scan(ctx, lidar.ScanOptions{HitsOnly: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hits.Distances(), test.ShouldResemble, []float64{4, 3})

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = dev.Scan(cancelled, lidar.ScanOptions{})
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestDeviceGeometry(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	dev, err := New(lidar.DeviceDescription{Name: "front", MaxRange: 25, Rays: 8}, nil, logger)
	test.That(t, err, test.ShouldBeNil)

	maxRange, err := dev.Range(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, maxRange, test.ShouldEqual, 25)

	bounds, err := dev.Bounds(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bounds, test.ShouldResemble, r2.Point{X: 50, Y: 50})

	res, err := dev.AngularResolution(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldAlmostEqual, 45)

	uneven, err := New(lidar.DeviceDescription{
		Name:     "uneven",
		MaxRange: 25,
		Angles:   []float64{350, 10, 90},
	}, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	res, err = uneven.AngularResolution(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldAlmostEqual, 20, 1e-9)

	single, err := New(lidar.DeviceDescription{Name: "single", MaxRange: 25, Rays: 1}, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	res, err = single.AngularResolution(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldEqual, 360)

	best, bestDev, num, err := lidar.BestAngularResolution(ctx, []lidar.Device{dev, uneven, single})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, best, test.ShouldAlmostEqual, 20, 1e-9)
	test.That(t, bestDev, test.ShouldEqual, uneven)
	test.That(t, num, test.ShouldEqual, 1)
}
