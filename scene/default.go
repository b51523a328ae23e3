package scene

import (
	"github.com/golang/geo/r2"

	"go.viam.com/lidarsim/lidar"
	"go.viam.com/lidarsim/spatialmath"
)

// DefaultMaxRange is the range of the sensor in the default scene.
const DefaultMaxRange = 5000

// Default returns the demonstration scene: one sensor at the origin sweeping 360 rays out to
// DefaultMaxRange through three circular obstacles.
func Default() *Config {
	pillar := func(label string, x, y, r float64) spatialmath.GeometryConfig {
		return spatialmath.GeometryConfig{
			Type:   spatialmath.CircleType,
			Label:  label,
			Center: &r2.Point{X: x, Y: y},
			R:      r,
		}
	}
	return &Config{
		Sensors: []lidar.DeviceDescription{
			{
				Name:     "lidar",
				Type:     lidar.DeviceTypeFake,
				MaxRange: DefaultMaxRange,
				Rays:     lidar.DefaultRays,
				Unit:     lidar.Degrees,
			},
		},
		Obstacles: []spatialmath.GeometryConfig{
			pillar("pillar_1", 2000, 1000, 500),
			pillar("pillar_2", -1500, -1500, 700),
			pillar("pillar_3", -2000, 2000, 300),
		},
	}
}
