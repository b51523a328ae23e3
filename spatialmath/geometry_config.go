package spatialmath

import (
	"github.com/golang/geo/r2"
)

// GeometryConfig specifies the format of obstacles specified through JSON or YAML configuration files.
type GeometryConfig struct {
	Type  GeometryType `json:"type,omitempty" yaml:"type,omitempty"`
	Label string       `json:"label,omitempty" yaml:"label,omitempty"`

	// circles
	Center *r2.Point `json:"center,omitempty" yaml:"center,omitempty"`
	R      float64   `json:"r,omitempty" yaml:"r,omitempty"`

	// segments
	A *r2.Point `json:"a,omitempty" yaml:"a,omitempty"`
	B *r2.Point `json:"b,omitempty" yaml:"b,omitempty"`

	// polygons
	Vertices []r2.Point `json:"vertices,omitempty" yaml:"vertices,omitempty"`
}

// NewGeometryConfig returns the config that describes the given geometry.
func NewGeometryConfig(g Geometry) (*GeometryConfig, error) {
	switch gType := g.(type) {
	case *circle:
		center := gType.center
		return &GeometryConfig{Type: CircleType, Label: gType.label, Center: &center, R: gType.radius}, nil
	case *segment:
		a, b := gType.a, gType.b
		return &GeometryConfig{Type: SegmentType, Label: gType.label, A: &a, B: &b}, nil
	case *polygon:
		return &GeometryConfig{Type: PolygonType, Label: gType.label, Vertices: gType.Vertices()}, nil
	default:
		return nil, newGeometryTypeUnsupportedError(UnknownType)
	}
}

// inferType guesses the geometry type from the populated fields when none was given.
func (config *GeometryConfig) inferType() GeometryType {
	switch {
	case config.Type != UnknownType:
		return config.Type
	case config.R != 0:
		return CircleType
	case len(config.Vertices) != 0:
		return PolygonType
	case config.A != nil || config.B != nil:
		return SegmentType
	default:
		return UnknownType
	}
}

// ParseConfig converts a GeometryConfig into the correct Geometry. An omitted circle center is the origin.
func (config *GeometryConfig) ParseConfig() (Geometry, error) {
	kind := config.inferType()
	switch kind {
	case CircleType:
		var center r2.Point
		if config.Center != nil {
			center = *config.Center
		}
		return NewCircle(center, config.R, config.Label)
	case SegmentType:
		if config.A == nil || config.B == nil {
			return nil, newBadGeometryDimensionsError(SegmentType, "both endpoints a and b are required")
		}
		return NewSegment(*config.A, *config.B, config.Label)
	case PolygonType:
		return NewPolygon(config.Vertices, config.Label)
	default:
		return nil, newGeometryTypeUnsupportedError(kind)
	}
}
