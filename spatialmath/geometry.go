// Package spatialmath defines the planar obstacle primitives a simulated range sensor can hit and
// the ray intersection query each of them answers.
package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/lidarsim/utils"
)

// Epsilon is the base numeric tolerance for intersection tests. It is scaled by the magnitude of
// the quantities being compared (ray range, segment length, circle radius) where that matters.
const Epsilon = 1e-9

// defaultCirclePoints is how many samples ToPoints takes around a circle when no resolution is given.
const defaultCirclePoints = 64

// GeometryType defines what geometry creator representations are known.
type GeometryType string

// The set of allowed representations for obstacles.
const (
	UnknownType = GeometryType("")
	CircleType  = GeometryType("circle")
	SegmentType = GeometryType("segment")
	PolygonType = GeometryType("polygon")
)

// Geometry is an obstacle a ray can be cast against. The set of implementations is closed: every
// geometry is built by NewCircle, NewSegment or NewPolygon, which validate their input, so a
// Geometry value is always well formed.
type Geometry interface {
	// Intersect returns the smallest parametric distance t in (0, ray.MaxRange] at which the ray
	// crosses the geometry's boundary, and false if there is none.
	Intersect(ray Ray) (float64, bool)
	// Bounds returns the axis aligned bounding rectangle of the geometry.
	Bounds() r2.Rect
	// Translate returns a copy of the geometry moved by offset.
	Translate(offset r2.Point) Geometry
	AlmostEqual(Geometry) bool
	// ToPoints samples the outline of the geometry. Resolution is the maximum distance between
	// consecutive samples on curved boundaries; zero picks a default.
	ToPoints(resolution float64) []r2.Point
	Label() string
	String() string
	json.Marshaler

	isObstacle()
}

// Intersect reports the nearest forward intersection of the ray with the geometry.
func Intersect(ray Ray, g Geometry) (float64, bool) {
	return g.Intersect(ray)
}

// raySegmentIntersect is the shared ray versus finite segment test used by segments and polygon
// edges. a and b must be distinct.
func raySegmentIntersect(ray Ray, a, b r2.Point) (float64, bool) {
	dir := ray.Direction()
	edge := b.Sub(a)
	toA := a.Sub(ray.Origin)
	edgeLen := edge.Norm()
	minT := ray.forwardEpsilon()

	denom := dir.Cross(edge)
	if math.Abs(denom) <= Epsilon*math.Max(1, edgeLen) {
		// parallel; only a collinear segment can still be hit
		scale := utils.MaxFloat64(1, edgeLen, toA.Norm())
		if math.Abs(toA.Cross(dir)) > Epsilon*scale {
			return 0, false
		}
		ta := toA.Dot(dir)
		tb := b.Sub(ray.Origin).Dot(dir)
		lo, hi := math.Min(ta, tb), math.Max(ta, tb)
		if hi <= minT {
			return 0, false
		}
		t := lo
		if lo <= minT {
			// origin sits on the segment; the overlap runs forward to its far end
			t = hi
		}
		return inRange(ray, t)
	}

	t := toA.Cross(edge) / denom
	s := toA.Cross(dir) / denom
	if s < -Epsilon || s > 1+Epsilon || t <= minT {
		return 0, false
	}
	return inRange(ray, t)
}

func inRange(ray Ray, t float64) (float64, bool) {
	if t > ray.MaxRange {
		return 0, false
	}
	return t, true
}

func pointsAlmostEqual(a, b r2.Point, eps float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, eps) && utils.Float64AlmostEqual(a.Y, b.Y, eps)
}

func pointIsFinite(p r2.Point) bool {
	return utils.IsFinite(p.X, p.Y)
}

func formatPoint(p r2.Point) string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}
