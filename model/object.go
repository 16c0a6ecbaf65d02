package model

// ObjectCategory identifies the kind of drifting object being searched for.
// The category selects a leeway coefficient at lookup time.
type ObjectCategory string

const (
	PersonInWaterVertical ObjectCategory = "person_in_water_vertical"
	PersonInWaterSurvival ObjectCategory = "person_in_water_survival"
	LifeRaft              ObjectCategory = "life_raft"
	FishingBoat           ObjectCategory = "fishing_boat"
	Kayak                 ObjectCategory = "kayak"
	Debris                ObjectCategory = "debris"
)

// LeewayCoefficient describes how strongly wind drives an object of a given
// category: the fraction of wind speed that becomes drift speed (a range,
// sampled per Monte Carlo draw) and the divergence angle between wind
// direction and drift direction. The angle carries magnitude only; the side
// is chosen per sample.
type LeewayCoefficient struct {
	Category           ObjectCategory
	Name               string
	LeewayFractionMin  float64 // fraction of wind speed, lower bound
	LeewayFractionMax  float64 // fraction of wind speed, upper bound
	DivergenceAngleDeg float64
	Description        string
}
