package spatialmath

import (
	"github.com/pkg/errors"
)

// ErrInvalidGeometry is returned when an obstacle definition is malformed. Every error produced by
// the geometry constructors wraps it.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ErrInvalidRay is returned when a ray has a non-positive range or non-finite parameters.
var ErrInvalidRay = errors.New("invalid ray")

func newBadGeometryDimensionsError(kind GeometryType, format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidGeometry, "%s: "+format, append([]interface{}{kind}, args...)...)
}

func newGeometryTypeUnsupportedError(kind GeometryType) error {
	return errors.Wrapf(ErrInvalidGeometry, "geometry type %q unsupported", kind)
}
