package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func makeTestSegment(t *testing.T, a, b r2.Point) Geometry {
	t.Helper()
	s, err := NewSegment(a, b, "")
	test.That(t, err, test.ShouldBeNil)
	return s
}

func TestNewSegmentBadDims(t *testing.T) {
	_, err := NewSegment(r2.Point{X: 1, Y: 1}, r2.Point{X: 1, Y: 1}, "bad")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrInvalidGeometry), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "coincide")

	_, err = NewSegment(r2.Point{X: math.Inf(1)}, r2.Point{X: 1, Y: 1}, "bad")
	test.That(t, errors.Is(err, ErrInvalidGeometry), test.ShouldBeTrue)
}

func TestSegmentIntersect(t *testing.T) {
	wall := makeTestSegment(t, r2.Point{X: 2, Y: -1}, r2.Point{X: 2, Y: 1})
	origin := r2.Point{}

	cases := []struct {
		name     string
		seg      Geometry
		ray      Ray
		expected float64
		hit      bool
	}{
		{"straight on", wall, makeTestRay(t, origin, 0, 10), 2, true},
		{"upper endpoint", wall, makeTestRay(t, origin, math.Atan2(1, 2), 10), math.Hypot(2, 1), true},
		{"lower endpoint", wall, makeTestRay(t, origin, math.Atan2(-1, 2), 10), math.Hypot(2, 1), true},
		{"past the end", wall, makeTestRay(t, origin, math.Atan2(1.1, 2), 10), 0, false},
		{"behind", wall, makeTestRay(t, origin, math.Pi, 10), 0, false},
		{"out of range", wall, makeTestRay(t, origin, 0, 1.5), 0, false},
		{"parallel", wall, makeTestRay(t, origin, math.Pi/2, 10), 0, false},
		{"from the far side", wall, makeTestRay(t, r2.Point{X: 5, Y: 0}, math.Pi, 10), 3, true},
		{"diagonal", makeTestSegment(t, r2.Point{X: 0, Y: 4}, r2.Point{X: 4, Y: 0}), makeTestRay(t, origin, math.Pi/4, 10), 2 * math.Sqrt2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := tc.seg.Intersect(tc.ray)
			test.That(t, ok, test.ShouldEqual, tc.hit)
			if tc.hit {
				test.That(t, d, test.ShouldAlmostEqual, tc.expected, 1e-9)
			}
		})
	}
}

func TestSegmentCollinear(t *testing.T) {
	origin := r2.Point{}
	ray := makeTestRay(t, origin, 0, 10)

	cases := []struct {
		name     string
		a, b     r2.Point
		expected float64
		hit      bool
	}{
		{"ahead", r2.Point{X: 3}, r2.Point{X: 6}, 3, true},
		{"ahead reversed", r2.Point{X: 6}, r2.Point{X: 3}, 3, true},
		{"origin inside", r2.Point{X: -1}, r2.Point{X: 4}, 4, true},
		{"origin at endpoint", r2.Point{X: 0}, r2.Point{X: 4}, 4, true},
		{"behind", r2.Point{X: -6}, r2.Point{X: -3}, 0, false},
		{"ends at origin", r2.Point{X: -6}, r2.Point{X: 0}, 0, false},
		{"beyond range", r2.Point{X: 12}, r2.Point{X: 15}, 0, false},
		{"parallel offset", r2.Point{X: 3, Y: 0.5}, r2.Point{X: 6, Y: 0.5}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := makeTestSegment(t, tc.a, tc.b).Intersect(ray)
			test.That(t, ok, test.ShouldEqual, tc.hit)
			if tc.hit {
				test.That(t, d, test.ShouldAlmostEqual, tc.expected, 1e-9)
			}
		})
	}
}

func TestSegmentOriginOnSegment(t *testing.T) {
	s := makeTestSegment(t, r2.Point{X: 0, Y: -1}, r2.Point{X: 0, Y: 1})
	for _, angle := range []float64{0, math.Pi, 0.7, -2} {
		_, ok := s.Intersect(makeTestRay(t, r2.Point{}, angle, 10))
		test.That(t, ok, test.ShouldBeFalse)
	}
}

func TestSegmentAccessors(t *testing.T) {
	g := makeTestSegment(t, r2.Point{X: 3, Y: 1}, r2.Point{X: -1, Y: 4})
	s := g.(*segment)
	a, b := s.Endpoints()
	test.That(t, a, test.ShouldResemble, r2.Point{X: 3, Y: 1})
	test.That(t, b, test.ShouldResemble, r2.Point{X: -1, Y: 4})
	test.That(t, s.Length(), test.ShouldAlmostEqual, 5)
	test.That(t, s.String(), test.ShouldContainSubstring, "Segment")
	test.That(t, s.Bounds().Lo(), test.ShouldResemble, r2.Point{X: -1, Y: 1})
	test.That(t, s.Bounds().Hi(), test.ShouldResemble, r2.Point{X: 3, Y: 4})
	test.That(t, s.ToPoints(0), test.ShouldResemble, []r2.Point{a, b})

	moved := s.Translate(r2.Point{X: -3, Y: -1})
	test.That(t, moved.AlmostEqual(makeTestSegment(t, r2.Point{}, r2.Point{X: -4, Y: 3})), test.ShouldBeTrue)
	test.That(t, s.AlmostEqual(makeTestSegment(t, b, a)), test.ShouldBeFalse)
	test.That(t, s.AlmostEqual(makeTestCircle(t, a, 1)), test.ShouldBeFalse)
}
