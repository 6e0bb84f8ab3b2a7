package geo

import (
	"fmt"
	"math"
	"time"
)

// EarthRadiusKM is the mean Earth radius used for great-circle distances.
const EarthRadiusKM = 6371.0

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := degToRad(lat1)
	phi2 := degToRad(lat2)
	dPhi := degToRad(lat2 - lat1)
	dLambda := degToRad(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c * 1000
}

// BearingDegrees returns the initial great-circle bearing from one coordinate
// to another, in degrees clockwise from north, normalized to [0, 360).
func BearingDegrees(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := degToRad(lat1)
	phi2 := degToRad(lat2)
	dLambda := degToRad(lng2 - lng1)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	deg := radToDeg(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// KMHFromMS converts a speed in meters per second to kilometers per hour.
// Native geolocation readings report m/s; the stream contract carries km/h.
func KMHFromMS(ms float64) float64 {
	return ms * 3.6
}

// FormatDistance renders a distance in meters as "850 m" or "1.2 km".
func FormatDistance(meters float64) string {
	if meters < 0 {
		meters = 0
	}
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders a duration in seconds as "45 sec", "12 min" or
// "1 hr 5 min".
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(math.Round(seconds))
	if s < 60 {
		return fmt.Sprintf("%d sec", s)
	}
	mins := s / 60
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	hrs := mins / 60
	rem := mins % 60
	if rem == 0 {
		return fmt.Sprintf("%d hr", hrs)
	}
	return fmt.Sprintf("%d hr %d min", hrs, rem)
}

// FormatSpeedKMH renders a speed with one decimal, e.g. "18.0 km/h".
func FormatSpeedKMH(kmh float64) string {
	return fmt.Sprintf("%.1f km/h", kmh)
}

// FormatRelativeTime renders the age of a timestamp for staleness display.
// Recomputed on demand by the caller rather than via a background timer.
func FormatRelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }
