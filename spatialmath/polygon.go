package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"
)

// polygon is a closed obstacle outline. Its edges join consecutive vertices and the last vertex
// back to the first.
type polygon struct {
	vertices []r2.Point
	label    string
}

// NewPolygon instantiates a new polygon Geometry. The vertex slice is copied.
func NewPolygon(vertices []r2.Point, label string) (Geometry, error) {
	if len(vertices) < 3 {
		return nil, newBadGeometryDimensionsError(PolygonType, "need at least 3 vertices, got %d", len(vertices))
	}
	for i, v := range vertices {
		if !pointIsFinite(v) {
			return nil, newBadGeometryDimensionsError(PolygonType, "vertex %d is not finite: %v", i, v)
		}
		next := vertices[(i+1)%len(vertices)]
		if v == next {
			return nil, newBadGeometryDimensionsError(PolygonType, "vertices %d and %d coincide at %s",
				i, (i+1)%len(vertices), formatPoint(v))
		}
	}
	copied := make([]r2.Point, len(vertices))
	copy(copied, vertices)
	return &polygon{vertices: copied, label: label}, nil
}

func (p *polygon) isObstacle() {}

// Vertices returns a copy of the polygon's vertices in order.
func (p *polygon) Vertices() []r2.Point {
	out := make([]r2.Point, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Label returns the label of this polygon.
func (p *polygon) Label() string {
	return p.label
}

// String returns a human readable string that represents the polygon.
func (p *polygon) String() string {
	pts := make([]string, 0, len(p.vertices))
	for _, v := range p.vertices {
		pts = append(pts, formatPoint(v))
	}
	return fmt.Sprintf("Type: Polygon, Vertices: [%s]", strings.Join(pts, ", "))
}

func (p *polygon) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// Bounds returns the rectangle enclosing every vertex.
func (p *polygon) Bounds() r2.Rect {
	return r2.RectFromPoints(p.vertices...)
}

// Translate returns a copy of the polygon moved by offset.
func (p *polygon) Translate(offset r2.Point) Geometry {
	moved := make([]r2.Point, 0, len(p.vertices))
	for _, v := range p.vertices {
		moved = append(moved, v.Add(offset))
	}
	return &polygon{vertices: moved, label: p.label}
}

// AlmostEqual compares the polygon with another geometry and checks if they are equivalent.
// Vertex order and starting vertex must match.
func (p *polygon) AlmostEqual(g Geometry) bool {
	other, ok := g.(*polygon)
	if !ok || len(other.vertices) != len(p.vertices) {
		return false
	}
	for i := range p.vertices {
		if !pointsAlmostEqual(p.vertices[i], other.vertices[i], 1e-6) {
			return false
		}
	}
	return true
}

// ToPoints returns the vertices with the first repeated at the end, closing the outline.
func (p *polygon) ToPoints(resolution float64) []r2.Point {
	pts := make([]r2.Point, 0, len(p.vertices)+1)
	pts = append(pts, p.vertices...)
	return append(pts, p.vertices[0])
}

// Area returns the unsigned area enclosed by the polygon (shoelace formula).
func (p *polygon) Area() float64 {
	var sum float64
	for i, v := range p.vertices {
		sum += v.Cross(p.vertices[(i+1)%len(p.vertices)])
	}
	return math.Abs(sum) / 2
}

// Intersect casts the ray against every edge, including the closing edge, and keeps the nearest hit.
func (p *polygon) Intersect(ray Ray) (float64, bool) {
	best := math.Inf(1)
	for i, v := range p.vertices {
		if t, ok := raySegmentIntersect(ray, v, p.vertices[(i+1)%len(p.vertices)]); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
