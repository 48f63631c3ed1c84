// Package qibla computes the direction of the Kaaba from any point on Earth.
package qibla

import (
	"math"

	"github.com/smokyabdulrahman/prayer-engine/internal/astro"
)

// Coordinates of the Kaaba in Makkah.
const (
	KaabaLatitude  = 21.4225
	KaabaLongitude = 39.8262
)

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0

// DefaultTolerance is how far, in degrees, a heading may be from the Qibla
// and still count as facing it.
const DefaultTolerance = 5.0

var cardinals = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Bearing returns the initial great-circle bearing from (lat, lon) to the
// Kaaba, in degrees clockwise from true north, in [0, 360).
//
// At the Kaaba itself the direction is undefined and Bearing returns 0.
func Bearing(lat, lon float64) float64 {
	dLon := KaabaLongitude - lon

	y := astro.Sin(dLon) * astro.Cos(KaabaLatitude)
	x := astro.Cos(lat)*astro.Sin(KaabaLatitude) -
		astro.Sin(lat)*astro.Cos(KaabaLatitude)*astro.Cos(dLon)

	return astro.FixAngle(astro.Atan2(y, x))
}

// CardinalDirection maps a bearing to one of eight compass points. Bearings
// exactly between two points round up, so 22.5 is NE.
func CardinalDirection(bearing float64) string {
	i := int(math.Round(astro.FixAngle(bearing)/45)) % 8
	return cardinals[i]
}

// Distance returns the great-circle distance to the Kaaba in kilometres.
func Distance(lat, lon float64) float64 {
	dLat := astro.DegToRad(KaabaLatitude - lat)
	dLon := astro.DegToRad(KaabaLongitude - lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		astro.Cos(lat)*astro.Cos(KaabaLatitude)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Relative returns the Qibla bearing as seen from a device pointing at
// heading, in [0, 360).
func Relative(qibla, heading float64) float64 {
	return astro.FixAngle(qibla - heading)
}

// Aligned reports whether heading is within tolerance degrees of qibla on
// either side.
func Aligned(qibla, heading, tolerance float64) bool {
	r := Relative(qibla, heading)
	return math.Min(r, 360-r) <= tolerance
}
