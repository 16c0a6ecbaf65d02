package api

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/drift-simulator/core"
)

const (
	minProjectionHours = 1.0
	maxProjectionHours = 72.0
	minParticles       = 100
	maxParticles       = 5000
)

var (
	ErrInvalidCoordinate = errors.New("last known position out of range")
	ErrInvalidHours      = errors.New("projection hours out of range")
	ErrInvalidParticles  = errors.New("particle count out of range")
)

// Validate rejects requests the simulator cannot meaningfully run. Unknown
// object types are not an error; the coefficient lookup substitutes the
// person-in-water default.
func (r *DriftRequest) Validate() error {
	if !core.ValidCoordinate(r.LKP.Lat, r.LKP.Lon) {
		return fmt.Errorf("%w: lat=%.4f lon=%.4f", ErrInvalidCoordinate, r.LKP.Lat, r.LKP.Lon)
	}
	if r.ProjectionHours < minProjectionHours || r.ProjectionHours > maxProjectionHours {
		return fmt.Errorf("%w: %.1f not in [%.0f, %.0f]",
			ErrInvalidHours, r.ProjectionHours, minProjectionHours, maxProjectionHours)
	}
	if r.NumParticles < minParticles || r.NumParticles > maxParticles {
		return fmt.Errorf("%w: %d not in [%d, %d]",
			ErrInvalidParticles, r.NumParticles, minParticles, maxParticles)
	}
	return nil
}
