package telemetry

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/theoremus-urban-solutions/rider-nav/geo"
)

// Display carries the values the host UI renders for a single sample.
type Display struct {
	Lat float64
	Lng float64
	// RotationDeg rotates the map marker clockwise from north. Zero with
	// HasHeading false means render unrotated.
	RotationDeg  float64
	HasHeading   bool
	SpeedLabel   string
	BatteryLabel string
	StatusLabel  string
	UpdatedLabel string
}

// Projector translates raw samples into display-safe values.
type Projector struct{}

// Project derives display values for one sample. The staleness label is
// computed against now on demand, not by a background timer.
func (Projector) Project(s LocationSample, now time.Time) Display {
	d := Display{
		Lat:          s.Lat,
		Lng:          s.Lng,
		StatusLabel:  humanizeStatus(s.Status),
		UpdatedLabel: geo.FormatRelativeTime(s.Timestamp, now),
	}
	if s.HeadingDeg != nil {
		d.HasHeading = true
		d.RotationDeg = *s.HeadingDeg
	}
	if s.SpeedKMH != nil {
		d.SpeedLabel = geo.FormatSpeedKMH(*s.SpeedKMH)
	}
	if s.BatteryPct != nil {
		d.BatteryLabel = fmt.Sprintf("%.0f%%", *s.BatteryPct)
	}
	return d
}

// humanizeStatus turns feed status codes like "in_transit" into "In transit".
func humanizeStatus(status string) string {
	if status == "" {
		return ""
	}
	out := strings.ReplaceAll(status, "_", " ")
	r, size := utf8.DecodeRuneInString(out)
	return string(unicode.ToUpper(r)) + out[size:]
}
