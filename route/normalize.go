package route

// SyntheticInstruction is the single fallback step text used when a route
// carries no instructions in any shape.
const SyntheticInstruction = "Head towards destination"

// Normalize flattens a route into its ordered step sequence. Nested segment
// instructions take priority, then the flat top-level list; a route with
// neither yields one synthetic step with no end coordinate.
func Normalize(r *Route) []Step {
	if r == nil {
		return []Step{syntheticStep()}
	}

	var steps []Step
	for _, seg := range r.Segments {
		steps = append(steps, seg.Instructions...)
	}
	if len(steps) == 0 {
		steps = append(steps, r.Instructions...)
	}
	if len(steps) == 0 {
		return []Step{syntheticStep()}
	}

	for i := range steps {
		steps[i].SpokenText = StripMarkup(steps[i].Instruction)
		if !steps[i].Maneuver.IsValid() {
			steps[i].Maneuver = ManeuverStraight
		}
	}
	return steps
}

func syntheticStep() Step {
	return Step{
		Instruction: SyntheticInstruction,
		SpokenText:  SyntheticInstruction,
		Maneuver:    ManeuverDepart,
	}
}

// Totals returns the route's declared total distance and duration, used as a
// fallback when per-step values are missing.
func Totals(r *Route) (meters, seconds float64) {
	if r == nil {
		return 0, 0
	}
	return r.TotalDistanceMeters, r.TotalDurationSeconds
}
