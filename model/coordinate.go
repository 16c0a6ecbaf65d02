package model

// Coordinate is a geographic position in decimal degrees.
// Latitude ∈ [-90, 90], longitude ∈ [-180, 180]; validated at construction
// boundaries via core.ValidCoordinate.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EnvironmentSample is a horizontal velocity vector in m/s, used for both
// ocean currents and wind.
type EnvironmentSample struct {
	U float64 // eastward component
	V float64 // northward component
}
