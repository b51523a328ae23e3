package lidar

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/lidarsim/utils"
)

// AngleUnit is the unit scan angles are given in.
type AngleUnit string

// The known angle units. The empty unit is treated as Radians.
const (
	Radians = AngleUnit("radians")
	Degrees = AngleUnit("degrees")
)

// ToRadians converts an angle given in this unit to radians.
func (u AngleUnit) ToRadians(angle float64) (float64, error) {
	switch u {
	case "", Radians:
		return angle, nil
	case Degrees:
		return utils.DegToRad(angle), nil
	default:
		return 0, newInvalidScanParametersError("unknown angle unit %q", string(u))
	}
}

// fullTurn returns one revolution expressed in this unit.
func (u AngleUnit) fullTurn() (float64, error) {
	switch u {
	case "", Radians:
		return 2 * math.Pi, nil
	case Degrees:
		return 360, nil
	default:
		return 0, newInvalidScanParametersError("unknown angle unit %q", string(u))
	}
}

// EvenlySpacedAngles returns count angles covering one full turn starting at zero. The closing
// angle of the turn is excluded so no direction is sampled twice.
func EvenlySpacedAngles(count int, unit AngleUnit) ([]float64, error) {
	turn, err := unit.fullTurn()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, newInvalidScanParametersError("angle count must not be negative, got %d", count)
	}
	if count == 0 {
		return []float64{}, nil
	}
	angles := floats.Span(make([]float64, count+1), 0, turn)
	return angles[:count], nil
}
