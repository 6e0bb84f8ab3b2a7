package guidance

import (
	"sync"

	"github.com/theoremus-urban-solutions/rider-nav/config"
	"github.com/theoremus-urban-solutions/rider-nav/geo"
	"github.com/theoremus-urban-solutions/rider-nav/route"
)

// State is the inspectable navigation state. StepIndex always stays within
// [0, len(steps)-1]; once the final proximity threshold is crossed the
// machine is terminal and stops auto-advancing.
type State struct {
	StepIndex          int
	LastAnnouncedIndex int
	PreAnnounceFired   bool
	VoiceEnabled       bool
	Arrived            bool
}

// Machine owns the current step index and decides, from live position fixes,
// whether guidance advances. One machine per navigation session.
//
// The machine serializes internally, so fixes and queries may arrive on any
// goroutine; each fix is evaluated fully before the next. Callbacks fire
// while the machine is locked and must not call back into it.
type Machine struct {
	mu               sync.Mutex
	steps            []route.Step
	totalMeters      float64
	totalSeconds     float64
	thresholds       config.Thresholds
	sched            *Scheduler
	stepIndex        int
	preAnnounceFired bool
	arrived          bool

	// OnStepChange fires after every index change, automatic or manual.
	OnStepChange func(index int, step route.Step)
	// OnArrival fires once when the final step's proximity threshold is crossed.
	OnArrival func()
}

// NewMachine normalizes the route and builds a machine positioned at the
// first step. The scheduler must not be nil.
func NewMachine(r *route.Route, thresholds config.Thresholds, sched *Scheduler) *Machine {
	if thresholds.AdvanceMeters <= 0 {
		thresholds.AdvanceMeters = config.DefaultAdvanceMeters
	}
	if thresholds.PreAnnounceMeters <= thresholds.AdvanceMeters {
		thresholds.PreAnnounceMeters = config.DefaultPreAnnounceMeters
	}
	m := &Machine{
		steps:      route.Normalize(r),
		thresholds: thresholds,
		sched:      sched,
	}
	m.totalMeters, m.totalSeconds = route.Totals(r)
	return m
}

// Start announces the first step. Call once when navigation begins.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sched.Announce(m.stepIndex, m.steps[m.stepIndex].SpokenText, ReasonInitial)
	if m.OnStepChange != nil {
		m.OnStepChange(m.stepIndex, m.steps[m.stepIndex])
	}
}

// CheckAdvance evaluates one position fix against the active step's end
// coordinate. Advances at most one step per call. Missing geometry on either
// side is a no-op.
func (m *Machine) CheckAdvance(pos *route.LatLng) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.arrived || pos == nil {
		return
	}
	step := m.steps[m.stepIndex]
	if step.End == nil {
		return
	}

	d := geo.DistanceMeters(pos.Lat, pos.Lng, step.End.Lat, step.End.Lng)
	last := len(m.steps) - 1

	switch {
	case d < m.thresholds.AdvanceMeters:
		if m.stepIndex < last {
			m.stepIndex++
			m.preAnnounceFired = false
			next := m.steps[m.stepIndex]
			m.sched.Announce(m.stepIndex, next.SpokenText, ReasonAdvance)
			if m.OnStepChange != nil {
				m.OnStepChange(m.stepIndex, next)
			}
			return
		}
		// Final step reached: terminal, the index has no successor.
		m.arrived = true
		if m.OnArrival != nil {
			m.OnArrival()
		}
	case d < m.thresholds.PreAnnounceMeters:
		if !m.preAnnounceFired {
			m.preAnnounceFired = true
			// The rider is approaching the end of the active step; the action
			// to prepare for is the next step's maneuver. On the final step
			// the step's own maneuver is the arrival itself.
			upcoming := step
			if m.stepIndex < last {
				upcoming = m.steps[m.stepIndex+1]
			}
			m.sched.Announce(m.stepIndex, "Prepare to "+upcoming.Maneuver.Phrase(), ReasonPreAnnounce)
		}
	default:
		m.preAnnounceFired = false
	}
}

// StepForward moves to the next step, clamped at the last index. Forward
// manual navigation re-announces the step.
func (m *Machine) StepForward() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stepIndex >= len(m.steps)-1 {
		return
	}
	m.stepIndex++
	m.preAnnounceFired = false
	step := m.steps[m.stepIndex]
	m.sched.Announce(m.stepIndex, step.SpokenText, ReasonManual)
	if m.OnStepChange != nil {
		m.OnStepChange(m.stepIndex, step)
	}
}

// StepBack moves to the previous step, clamped at zero.
func (m *Machine) StepBack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stepIndex <= 0 {
		return
	}
	m.stepIndex--
	m.preAnnounceFired = false
	if m.OnStepChange != nil {
		m.OnStepChange(m.stepIndex, m.steps[m.stepIndex])
	}
}

// Remaining sums distance and duration over the steps from the current index
// to the end. A zero sum (missing per-step values) falls back to the route
// totals.
func (m *Machine) Remaining() (meters, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.steps[m.stepIndex:] {
		meters += s.DistanceMeters
		seconds += s.DurationSeconds
	}
	if meters == 0 {
		meters = m.totalMeters
	}
	if seconds == 0 {
		seconds = m.totalSeconds
	}
	return meters, seconds
}

// Current returns the active step.
func (m *Machine) Current() route.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps[m.stepIndex]
}

// Steps returns the normalized step sequence.
func (m *Machine) Steps() []route.Step { return m.steps }

// State returns a snapshot of the navigation state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		StepIndex:          m.stepIndex,
		LastAnnouncedIndex: m.sched.LastAnnounced(),
		PreAnnounceFired:   m.preAnnounceFired,
		VoiceEnabled:       m.sched.VoiceEnabled(),
		Arrived:            m.arrived,
	}
}

// Arrived reports whether the machine is in its terminal state.
func (m *Machine) Arrived() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arrived
}
