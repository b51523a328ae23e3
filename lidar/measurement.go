package lidar

import (
	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/lidarsim/spatialmath"
	"go.viam.com/lidarsim/utils"
)

// Measurements is a scan result: one measurement per requested angle, in request order.
type Measurements []*Measurement

func (ms Measurements) Len() int {
	return len(ms)
}

func (ms Measurements) Swap(i, j int) {
	ms[i], ms[j] = ms[j], ms[i]
}

// Less orders by angle and then by distance.
func (ms Measurements) Less(i, j int) bool {
	if ms[i].angleRad < ms[j].angleRad {
		return true
	}
	if ms[i].angleRad == ms[j].angleRad {
		return ms[i].distance < ms[j].distance
	}
	return false
}

// Distances returns the distance of every measurement in order.
func (ms Measurements) Distances() []float64 {
	return lo.Map(ms, func(m *Measurement, _ int) float64 {
		return m.distance
	})
}

// Points returns the world coordinates where every ray stopped, in order.
func (ms Measurements) Points() []r2.Point {
	return lo.Map(ms, func(m *Measurement, _ int) r2.Point {
		return m.Coords()
	})
}

// Measurement is the reading along a single ray.
type Measurement struct {
	origin   r2.Point
	angle    float64
	angleRad float64
	distance float64
	obstacle spatialmath.Geometry
}

// NewMeasurement returns the reading of a ray cast from origin at angleRad (radians) that stopped
// after distance. angle is the same direction in whatever unit the caller asked for and obstacle is
// what the ray hit, or nil if it ran out of range.
func NewMeasurement(origin r2.Point, angle, angleRad, distance float64, obstacle spatialmath.Geometry) *Measurement {
	return &Measurement{
		origin:   origin,
		angle:    angle,
		angleRad: angleRad,
		distance: distance,
		obstacle: obstacle,
	}
}

// Angle returns the angle as it was requested.
func (m *Measurement) Angle() float64 {
	return m.angle
}

// AngleRad returns the angle in radians.
func (m *Measurement) AngleRad() float64 {
	return m.angleRad
}

// AngleDeg returns the angle in degrees.
func (m *Measurement) AngleDeg() float64 {
	return utils.RadToDeg(m.angleRad)
}

func (m *Measurement) Distance() float64 {
	return m.distance
}

// Hit reports whether the ray stopped on an obstacle rather than at its maximum range.
func (m *Measurement) Hit() bool {
	return m.obstacle != nil
}

// Obstacle returns the obstacle the ray stopped on, if any.
func (m *Measurement) Obstacle() spatialmath.Geometry {
	return m.obstacle
}

// HitLabel returns the label of the obstacle hit or the empty string on a miss.
func (m *Measurement) HitLabel() string {
	if m.obstacle == nil {
		return ""
	}
	return m.obstacle.Label()
}

// Origin returns where the ray was cast from.
func (m *Measurement) Origin() r2.Point {
	return m.origin
}

// Offset returns the ray endpoint relative to its origin.
func (m *Measurement) Offset() r2.Point {
	return utils.PolarToPoint(m.angleRad, m.distance)
}

// Coords returns the ray endpoint in world coordinates.
func (m *Measurement) Coords() r2.Point {
	return m.origin.Add(m.Offset())
}
