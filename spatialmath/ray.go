package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/lidarsim/utils"
)

// Ray is a directed half-line from Origin along Angle (radians, counter-clockwise from +X),
// truncated at MaxRange.
type Ray struct {
	Origin   r2.Point
	Angle    float64
	MaxRange float64

	// cached unit direction, filled in by NewRay
	dir r2.Point
}

// NewRay returns a ray after checking that its range is positive and all of its parameters are finite.
func NewRay(origin r2.Point, angle, maxRange float64) (Ray, error) {
	if !pointIsFinite(origin) || !utils.IsFinite(angle, maxRange) {
		return Ray{}, errors.Wrapf(ErrInvalidRay, "non-finite origin %v, angle %v or range %v", origin, angle, maxRange)
	}
	if maxRange <= 0 {
		return Ray{}, errors.Wrapf(ErrInvalidRay, "max range must be positive, got %v", maxRange)
	}
	return Ray{
		Origin:   origin,
		Angle:    angle,
		MaxRange: maxRange,
		dir:      r2.Point{X: math.Cos(angle), Y: math.Sin(angle)},
	}, nil
}

// Direction returns the unit direction vector (cos θ, sin θ).
func (r Ray) Direction() r2.Point {
	if r.dir == (r2.Point{}) {
		return r2.Point{X: math.Cos(r.Angle), Y: math.Sin(r.Angle)}
	}
	return r.dir
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float64) r2.Point {
	return r.Origin.Add(r.Direction().Mul(t))
}

// End returns the point at the ray's maximum range.
func (r Ray) End() r2.Point {
	return r.At(r.MaxRange)
}

// String returns a human readable string that represents the ray.
func (r Ray) String() string {
	return fmt.Sprintf("Ray: origin %s, angle %.4f rad, range %.3f", formatPoint(r.Origin), r.Angle, r.MaxRange)
}

// forwardEpsilon is the smallest t treated as in front of the origin. Anything closer is
// considered to be the origin itself and never reported as a hit.
func (r Ray) forwardEpsilon() float64 {
	return Epsilon * math.Max(1, r.MaxRange)
}
