package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/lidarsim/utils"
)

// circle is an obstacle bounded by a circle, it has a center and a radius that fully define it.
type circle struct {
	center r2.Point
	radius float64
	label  string
}

// NewCircle instantiates a new circle Geometry.
func NewCircle(center r2.Point, radius float64, label string) (Geometry, error) {
	if !pointIsFinite(center) || !utils.IsFinite(radius) {
		return nil, newBadGeometryDimensionsError(CircleType, "non-finite center %v or radius %v", center, radius)
	}
	if radius <= 0 {
		return nil, newBadGeometryDimensionsError(CircleType, "radius must be positive, got %v", radius)
	}
	return &circle{center: center, radius: radius, label: label}, nil
}

func (c *circle) isObstacle() {}

// Center returns the center of the circle.
func (c *circle) Center() r2.Point {
	return c.center
}

// Radius returns the radius of the circle.
func (c *circle) Radius() float64 {
	return c.radius
}

// Label returns the label of this circle.
func (c *circle) Label() string {
	return c.label
}

// String returns a human readable string that represents the circle.
func (c *circle) String() string {
	return fmt.Sprintf("Type: Circle, Center: %s, Radius: %.3f", formatPoint(c.center), c.radius)
}

func (c *circle) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// Bounds returns the square that encloses the circle.
func (c *circle) Bounds() r2.Rect {
	return r2.RectFromCenterSize(c.center, r2.Point{X: 2 * c.radius, Y: 2 * c.radius})
}

// Translate returns a copy of the circle moved by offset.
func (c *circle) Translate(offset r2.Point) Geometry {
	return &circle{center: c.center.Add(offset), radius: c.radius, label: c.label}
}

// AlmostEqual compares the circle with another geometry and checks if they are equivalent.
func (c *circle) AlmostEqual(g Geometry) bool {
	other, ok := g.(*circle)
	if !ok {
		return false
	}
	return pointsAlmostEqual(c.center, other.center, 1e-6) && utils.Float64AlmostEqual(c.radius, other.radius, 1e-8)
}

// ToPoints samples the circumference so that neighbouring samples are at most resolution apart.
func (c *circle) ToPoints(resolution float64) []r2.Point {
	n := defaultCirclePoints
	if resolution > 0 {
		n = int(math.Ceil(2 * math.Pi * c.radius / resolution))
		if n < 8 {
			n = 8
		}
	}
	pts := make([]r2.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, c.center.Add(r2.Point{X: c.radius * math.Cos(theta), Y: c.radius * math.Sin(theta)}))
	}
	return pts
}

// Intersect solves |origin + t·dir - center|² = r² for t. With dir a unit vector this is
// t² + b·t + c = 0 where b = -2·(Δ·dir), c = |Δ|² - r² and Δ = center - origin. A tangent ray
// (zero discriminant) counts as a hit at the repeated root.
func (c *circle) Intersect(ray Ray) (float64, bool) {
	dir := ray.Direction()
	delta := c.center.Sub(ray.Origin)
	b := -2 * delta.Dot(dir)
	cc := delta.Dot(delta) - c.radius*c.radius
	discriminant := b*b - 4*cc
	if discriminant < 0 {
		if discriminant < -Epsilon*math.Max(1, c.radius*c.radius) {
			return 0, false
		}
		discriminant = 0
	}
	sqrtDisc := math.Sqrt(discriminant)
	minT := ray.forwardEpsilon()

	best := math.Inf(1)
	for _, t := range [2]float64{(-b - sqrtDisc) / 2, (-b + sqrtDisc) / 2} {
		if t > minT && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return inRange(ray, best)
}
