package lidar

import (
	"github.com/pkg/errors"
)

// ErrInvalidScanParameters is returned when a scan request has a non-positive range, non-finite
// values or an unknown angle unit.
var ErrInvalidScanParameters = errors.New("invalid scan parameters")

// ErrNotStarted is returned when a device is asked to scan before Start or after Stop.
var ErrNotStarted = errors.New("device not started")

func newInvalidScanParametersError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidScanParameters, format, args...)
}
