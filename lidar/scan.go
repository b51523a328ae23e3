package lidar

import (
	"context"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/lidarsim/spatialmath"
	"go.viam.com/lidarsim/utils"
)

// ScanParameters describe a single static sweep.
type ScanParameters struct {
	Origin   r2.Point
	Angles   []float64
	Unit     AngleUnit
	MaxRange float64
}

// rays validates the parameters and builds one ray per angle.
func (params ScanParameters) rays() ([]spatialmath.Ray, error) {
	if !utils.IsFinite(params.Origin.X, params.Origin.Y, params.MaxRange) {
		return nil, newInvalidScanParametersError("non-finite origin %v or max range %v", params.Origin, params.MaxRange)
	}
	if params.MaxRange <= 0 {
		return nil, newInvalidScanParametersError("max range must be positive, got %v", params.MaxRange)
	}
	if _, err := params.Unit.ToRadians(0); err != nil {
		return nil, err
	}
	rays := make([]spatialmath.Ray, 0, len(params.Angles))
	for i, angle := range params.Angles {
		if !utils.IsFinite(angle) {
			return nil, newInvalidScanParametersError("angle %d is not finite: %v", i, angle)
		}
		rad, err := params.Unit.ToRadians(angle)
		if err != nil {
			return nil, err
		}
		ray, err := spatialmath.NewRay(params.Origin, rad, params.MaxRange)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidScanParameters, err.Error())
		}
		rays = append(rays, ray)
	}
	return rays, nil
}

// Scan casts one ray per angle from the origin and returns, in angle order, the distance to the
// nearest obstacle along each, or MaxRange where nothing is hit. Obstacles are only read.
// Rays are spread over a fixed pool of workers; a cancelled context aborts the whole scan.
func Scan(ctx context.Context, params ScanParameters, obstacles []spatialmath.Geometry) (Measurements, error) {
	rays, err := params.rays()
	if err != nil {
		return nil, err
	}
	for i, o := range obstacles {
		if o == nil {
			return nil, errors.Wrapf(spatialmath.ErrInvalidGeometry, "obstacle %d is nil", i)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make(Measurements, len(rays))
	if len(rays) == 0 {
		return results, nil
	}

	if err := utils.GroupWorkParallel(
		ctx,
		len(rays),
		nil,
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				ray := rays[workNum]
				distance, obstacle := Nearest(ray, obstacles)
				results[workNum] = NewMeasurement(ray.Origin, params.Angles[workNum], ray.Angle, distance, obstacle)
			}, nil
		},
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return results, nil
}

// Nearest returns the distance to the closest obstacle along the ray and the obstacle itself. When
// nothing lies within range it returns the ray's MaxRange and a nil obstacle. Ties go to the
// obstacle listed first.
func Nearest(ray spatialmath.Ray, obstacles []spatialmath.Geometry) (float64, spatialmath.Geometry) {
	best := ray.MaxRange
	var hit spatialmath.Geometry
	for _, o := range obstacles {
		t, ok := o.Intersect(ray)
		if ok && (hit == nil || t < best) {
			best = t
			hit = o
		}
	}
	return best, hit
}
