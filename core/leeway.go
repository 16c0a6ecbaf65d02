package core

import (
	"math"
	"math/rand/v2"

	"github.com/signalsfoundry/drift-simulator/model"
)

// Default multiplicative noise applied to environmental forcing in Monte
// Carlo draws, expressed as relative standard deviations.
const (
	DefaultCurrentNoiseStd = 0.05
	DefaultWindNoiseStd    = 0.10
)

// LeewayNoise configures the stochastic perturbations applied by
// SampleLeewayVelocity. The zero value disables the velocity noise while
// still randomising divergence side and leeway fraction.
type LeewayNoise struct {
	CurrentStd float64
	WindStd    float64
}

// DefaultLeewayNoise returns the standard noise configuration.
func DefaultLeewayNoise() LeewayNoise {
	return LeewayNoise{CurrentStd: DefaultCurrentNoiseStd, WindStd: DefaultWindNoiseStd}
}

// LeewayVelocity computes the expected drift velocity of an object: the
// current vector plus a leeway vector whose magnitude is wind speed times
// the midpoint leeway fraction and whose direction is offset from the wind
// direction by the coefficient's divergence angle on the given side
// (-1 left, 0 straight, 1 right). Pure function of its inputs.
func LeewayVelocity(currentU, currentV, windU, windV float64, category model.ObjectCategory, divergenceSide int) (u, v float64) {
	coeff := LookupLeewayCoefficient(category)
	fraction := (coeff.LeewayFractionMin + coeff.LeewayFractionMax) / 2
	return leeway(currentU, currentV, windU, windV, fraction, coeff.DivergenceAngleDeg, divergenceSide)
}

// SampleLeewayVelocity draws one Monte Carlo sample of the drift velocity.
// Current and wind components are each perturbed multiplicatively with
// Gaussian noise, the divergence side is drawn uniformly from {-1, 0, 1},
// and the leeway fraction is drawn uniformly from the coefficient's range.
// The caller supplies the random source, so seeded runs are reproducible.
func SampleLeewayVelocity(rng *rand.Rand, currentU, currentV, windU, windV float64, category model.ObjectCategory, noise LeewayNoise) (u, v float64) {
	coeff := LookupLeewayCoefficient(category)

	currentU *= 1 + rng.NormFloat64()*noise.CurrentStd
	currentV *= 1 + rng.NormFloat64()*noise.CurrentStd
	windU *= 1 + rng.NormFloat64()*noise.WindStd
	windV *= 1 + rng.NormFloat64()*noise.WindStd

	side := rng.IntN(3) - 1

	fraction := coeff.LeewayFractionMin
	if span := coeff.LeewayFractionMax - coeff.LeewayFractionMin; span > 0 {
		fraction += rng.Float64() * span
	}

	return leeway(currentU, currentV, windU, windV, fraction, coeff.DivergenceAngleDeg, side)
}

// leeway applies the shared physical law: decompose wind into speed and
// direction, scale by the leeway fraction, rotate by the signed divergence
// angle, and add the current vector.
func leeway(currentU, currentV, windU, windV, fraction, divergenceDeg float64, side int) (u, v float64) {
	windSpeed := math.Hypot(windU, windV)
	windDir := math.Atan2(windV, windU)

	leewaySpeed := windSpeed * fraction
	leewayDir := windDir + divergenceDeg*float64(side)*math.Pi/180

	return currentU + leewaySpeed*math.Cos(leewayDir), currentV + leewaySpeed*math.Sin(leewayDir)
}
