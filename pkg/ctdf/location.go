package ctdf

import "math"

const EarthRadiusMeters = 6371000

// Location is a GeoJSON point, coordinates are stored longitude first
type Location struct {
	Type        string    `json:"-" groups:"basic"`
	Coordinates []float64 `json:"coordinates" groups:"basic"`
}

func NewPoint(latitude float64, longitude float64) *Location {
	return &Location{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

func (l *Location) Latitude() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[1]
}

func (l *Location) Longitude() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[0]
}

func (l *Location) Valid() bool {
	return len(l.Coordinates) == 2 && ValidCoordinates(l.Latitude(), l.Longitude())
}

// Distance returns the great circle distance to the other location in metres
func (l *Location) Distance(other *Location) float64 {
	return HaversineDistance(l.Latitude(), l.Longitude(), other.Latitude(), other.Longitude())
}

func HaversineDistance(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

func ValidCoordinates(latitude float64, longitude float64) bool {
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) || math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return false
	}

	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}
