package spatialmath

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r2"
)

// segment is a finite straight obstacle between two distinct endpoints, e.g. a wall.
type segment struct {
	a, b  r2.Point
	label string
}

// NewSegment instantiates a new segment Geometry running from a to b.
func NewSegment(a, b r2.Point, label string) (Geometry, error) {
	if !pointIsFinite(a) || !pointIsFinite(b) {
		return nil, newBadGeometryDimensionsError(SegmentType, "non-finite endpoints %v, %v", a, b)
	}
	if a == b {
		return nil, newBadGeometryDimensionsError(SegmentType, "endpoints coincide at %s", formatPoint(a))
	}
	return &segment{a: a, b: b, label: label}, nil
}

func (s *segment) isObstacle() {}

// Endpoints returns the two ends of the segment.
func (s *segment) Endpoints() (r2.Point, r2.Point) {
	return s.a, s.b
}

// Length returns the distance between the two endpoints.
func (s *segment) Length() float64 {
	return s.b.Sub(s.a).Norm()
}

// Label returns the label of this segment.
func (s *segment) Label() string {
	return s.label
}

// String returns a human readable string that represents the segment.
func (s *segment) String() string {
	return fmt.Sprintf("Type: Segment, A: %s, B: %s", formatPoint(s.a), formatPoint(s.b))
}

func (s *segment) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// Bounds returns the rectangle spanned by the two endpoints.
func (s *segment) Bounds() r2.Rect {
	return r2.RectFromPoints(s.a, s.b)
}

// Translate returns a copy of the segment moved by offset.
func (s *segment) Translate(offset r2.Point) Geometry {
	return &segment{a: s.a.Add(offset), b: s.b.Add(offset), label: s.label}
}

// AlmostEqual compares the segment with another geometry and checks if they are equivalent.
// Direction matters: a segment from a to b is not equal to one from b to a.
func (s *segment) AlmostEqual(g Geometry) bool {
	other, ok := g.(*segment)
	if !ok {
		return false
	}
	return pointsAlmostEqual(s.a, other.a, 1e-6) && pointsAlmostEqual(s.b, other.b, 1e-6)
}

// ToPoints returns the two endpoints.
func (s *segment) ToPoints(resolution float64) []r2.Point {
	return []r2.Point{s.a, s.b}
}

// Intersect solves origin + t·dir = a + s·(b-a) for t > 0 and s in [0, 1]. A ray running along
// the segment hits the nearest point of the overlap that lies in front of the origin.
func (s *segment) Intersect(ray Ray) (float64, bool) {
	return raySegmentIntersect(ray, s.a, s.b)
}
