package core

import "github.com/signalsfoundry/drift-simulator/model"

// leewayTable holds the built-in leeway coefficients per object category,
// taken from SAR drift studies. Loaded once; read-only and shared by all
// concurrent simulation runs.
var leewayTable = map[model.ObjectCategory]model.LeewayCoefficient{
	model.PersonInWaterVertical: {
		Category:           model.PersonInWaterVertical,
		Name:               "Person in water (vertical)",
		LeewayFractionMin:  0.005,
		LeewayFractionMax:  0.005,
		DivergenceAngleDeg: 15.0,
		Description:        "Person floating vertically, minimal exposure to wind",
	},
	model.PersonInWaterSurvival: {
		Category:           model.PersonInWaterSurvival,
		Name:               "Person in water (survival position)",
		LeewayFractionMin:  0.011,
		LeewayFractionMax:  0.011,
		DivergenceAngleDeg: 20.0,
		Description:        "Person in survival position, moderate wind exposure",
	},
	model.LifeRaft: {
		Category:           model.LifeRaft,
		Name:               "Life raft (no sea anchor)",
		LeewayFractionMin:  0.035,
		LeewayFractionMax:  0.050,
		DivergenceAngleDeg: 28.0,
		Description:        "Life raft without sea anchor, high wind exposure",
	},
	model.FishingBoat: {
		Category:           model.FishingBoat,
		Name:               "Fishing boat adrift",
		LeewayFractionMin:  0.040,
		LeewayFractionMax:  0.040,
		DivergenceAngleDeg: 30.0,
		Description:        "Drifting fishing vessel",
	},
	model.Kayak: {
		Category:           model.Kayak,
		Name:               "Kayak",
		LeewayFractionMin:  0.010,
		LeewayFractionMax:  0.010,
		DivergenceAngleDeg: 15.0,
		Description:        "Kayak or similar small craft",
	},
	model.Debris: {
		Category:           model.Debris,
		Name:               "Debris",
		LeewayFractionMin:  0.025,
		LeewayFractionMax:  0.040,
		DivergenceAngleDeg: 25.0,
		Description:        "Floating debris or wreckage",
	},
}

// LookupLeewayCoefficient returns the leeway coefficient for a category.
// It is total: unrecognised categories fall back to the vertical
// person-in-water entry, the conservative slowest-drift default.
func LookupLeewayCoefficient(category model.ObjectCategory) model.LeewayCoefficient {
	if coeff, ok := leewayTable[category]; ok {
		return coeff
	}
	return leewayTable[model.PersonInWaterVertical]
}

// LeewayCoefficients returns a copy of the full coefficient table, for the
// object-type listing endpoint.
func LeewayCoefficients() []model.LeewayCoefficient {
	out := make([]model.LeewayCoefficient, 0, len(leewayTable))
	for _, coeff := range leewayTable {
		out = append(out, coeff)
	}
	return out
}
