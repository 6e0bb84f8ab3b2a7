package route

import "encoding/json"

// LatLng is a WGS 84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Maneuver is the directional action taken at a route step.
type Maneuver string

const (
	ManeuverTurnLeft        Maneuver = "turn-left"
	ManeuverTurnSlightLeft  Maneuver = "turn-slight-left"
	ManeuverTurnSharpLeft   Maneuver = "turn-sharp-left"
	ManeuverTurnRight       Maneuver = "turn-right"
	ManeuverTurnSlightRight Maneuver = "turn-slight-right"
	ManeuverTurnSharpRight  Maneuver = "turn-sharp-right"
	ManeuverUturnLeft       Maneuver = "uturn-left"
	ManeuverUturnRight      Maneuver = "uturn-right"
	ManeuverRoundaboutLeft  Maneuver = "roundabout-left"
	ManeuverRoundaboutRight Maneuver = "roundabout-right"
	ManeuverMerge           Maneuver = "merge"
	ManeuverRampLeft        Maneuver = "ramp-left"
	ManeuverRampRight       Maneuver = "ramp-right"
	ManeuverForkLeft        Maneuver = "fork-left"
	ManeuverForkRight       Maneuver = "fork-right"
	ManeuverStraight        Maneuver = "straight"
	ManeuverDestination     Maneuver = "destination"
	ManeuverDepart          Maneuver = "depart"
)

var maneuverSet = map[Maneuver]bool{
	ManeuverTurnLeft: true, ManeuverTurnSlightLeft: true, ManeuverTurnSharpLeft: true,
	ManeuverTurnRight: true, ManeuverTurnSlightRight: true, ManeuverTurnSharpRight: true,
	ManeuverUturnLeft: true, ManeuverUturnRight: true,
	ManeuverRoundaboutLeft: true, ManeuverRoundaboutRight: true,
	ManeuverMerge: true, ManeuverRampLeft: true, ManeuverRampRight: true,
	ManeuverForkLeft: true, ManeuverForkRight: true,
	ManeuverStraight: true, ManeuverDestination: true, ManeuverDepart: true,
}

// IsValid checks whether the maneuver is a member of the closed enumeration.
func (m Maneuver) IsValid() bool {
	return maneuverSet[m]
}

// ParseManeuver maps a raw maneuver string onto the enumeration. Unknown or
// empty values fall back to straight; this never fails.
func ParseManeuver(s string) Maneuver {
	m := Maneuver(s)
	if m.IsValid() {
		return m
	}
	return ManeuverStraight
}

// UnmarshalJSON applies the ParseManeuver fallback during route ingestion.
func (m *Maneuver) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*m = ManeuverStraight
		return nil
	}
	*m = ParseManeuver(s)
	return nil
}

var maneuverIcons = map[Maneuver]string{
	ManeuverTurnLeft:        "turn-left",
	ManeuverTurnSlightLeft:  "turn-slight-left",
	ManeuverTurnSharpLeft:   "turn-sharp-left",
	ManeuverTurnRight:       "turn-right",
	ManeuverTurnSlightRight: "turn-slight-right",
	ManeuverTurnSharpRight:  "turn-sharp-right",
	ManeuverUturnLeft:       "u-turn",
	ManeuverUturnRight:      "u-turn",
	ManeuverRoundaboutLeft:  "roundabout",
	ManeuverRoundaboutRight: "roundabout",
	ManeuverMerge:           "merge",
	ManeuverRampLeft:        "ramp",
	ManeuverRampRight:       "ramp",
	ManeuverForkLeft:        "fork",
	ManeuverForkRight:       "fork",
	ManeuverStraight:        "straight",
	ManeuverDestination:     "flag",
	ManeuverDepart:          "depart",
}

// Icon returns the display icon name for the maneuver.
func (m Maneuver) Icon() string {
	if icon, ok := maneuverIcons[m]; ok {
		return icon
	}
	return maneuverIcons[ManeuverStraight]
}

var maneuverPhrases = map[Maneuver]string{
	ManeuverTurnLeft:        "turn left",
	ManeuverTurnSlightLeft:  "turn slightly left",
	ManeuverTurnSharpLeft:   "turn sharply left",
	ManeuverTurnRight:       "turn right",
	ManeuverTurnSlightRight: "turn slightly right",
	ManeuverTurnSharpRight:  "turn sharply right",
	ManeuverUturnLeft:       "make a U-turn",
	ManeuverUturnRight:      "make a U-turn",
	ManeuverRoundaboutLeft:  "take the roundabout",
	ManeuverRoundaboutRight: "take the roundabout",
	ManeuverMerge:           "merge",
	ManeuverRampLeft:        "take the ramp on the left",
	ManeuverRampRight:       "take the ramp on the right",
	ManeuverForkLeft:        "keep left at the fork",
	ManeuverForkRight:       "keep right at the fork",
	ManeuverStraight:        "continue straight",
	ManeuverDestination:     "arrive at your destination",
	ManeuverDepart:          "head out",
}

// Phrase returns the spoken form of the maneuver, e.g. "turn left".
func (m Maneuver) Phrase() string {
	if p, ok := maneuverPhrases[m]; ok {
		return p
	}
	return maneuverPhrases[ManeuverStraight]
}

// Step is one instruction unit of a route. Immutable once normalized.
type Step struct {
	// Instruction is the display text as received, markup included.
	Instruction string `json:"instruction"`
	// SpokenText is the markup-stripped form used for voice announcements.
	// Populated during normalization.
	SpokenText      string   `json:"-"`
	Maneuver        Maneuver `json:"maneuver"`
	DistanceText    string   `json:"distance_text"`
	DistanceMeters  float64  `json:"distance_value_meters"`
	DurationText    string   `json:"duration_text"`
	DurationSeconds float64  `json:"duration_value_seconds"`
	// End is the coordinate where the step completes. May be nil for routes
	// with partial geometry; automatic advance is then disabled for the step.
	End *LatLng `json:"end_location"`
}

// UnmarshalJSON accepts both object-form steps and bare instruction strings,
// which some route providers emit in their instruction lists.
func (s *Step) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Step{Instruction: text, Maneuver: ManeuverStraight}
		return nil
	}
	type alias Step
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Maneuver == "" {
		a.Maneuver = ManeuverStraight
	}
	*s = Step(a)
	return nil
}

// Segment groups steps within a route. Purely structural; it exists only to
// be flattened.
type Segment struct {
	Instructions []Step `json:"instructions"`
}

// Route is the opaque value received from the route-optimization service.
// Immutable once received.
type Route struct {
	Segments             []Segment `json:"segments"`
	Instructions         []Step    `json:"instructions,omitempty"`
	TotalDistanceMeters  float64   `json:"total_distance_meters,omitempty"`
	TotalDurationSeconds float64   `json:"total_duration_seconds,omitempty"`
}
