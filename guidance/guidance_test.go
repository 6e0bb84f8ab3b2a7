package guidance

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/rider-nav/config"
	"github.com/theoremus-urban-solutions/rider-nav/route"
)

// recordingSpeaker captures the scheduler's speech traffic.
type recordingSpeaker struct {
	spoken  []string
	cancels int
}

func (r *recordingSpeaker) Speak(text string) { r.spoken = append(r.spoken, text) }
func (r *recordingSpeaker) Cancel()           { r.cancels++ }

// threeStepRoute builds a route whose step ends sit ~1.1 km apart along a
// meridian (0.01° of latitude ≈ 1112 m).
func threeStepRoute() *route.Route {
	return &route.Route{
		Instructions: []route.Step{
			{Instruction: "Head north on <b>Main St</b>", Maneuver: route.ManeuverDepart,
				DistanceMeters: 1100, DurationSeconds: 120, End: &route.LatLng{Lat: 0.00, Lng: 0}},
			{Instruction: "Turn left onto 2nd Ave", Maneuver: route.ManeuverTurnLeft,
				DistanceMeters: 1100, DurationSeconds: 150, End: &route.LatLng{Lat: 0.01, Lng: 0}},
			{Instruction: "Arrive at drop-off", Maneuver: route.ManeuverDestination,
				DistanceMeters: 900, DurationSeconds: 90, End: &route.LatLng{Lat: 0.02, Lng: 0}},
		},
	}
}

func newTestMachine(t *testing.T, r *route.Route) (*Machine, *recordingSpeaker) {
	t.Helper()
	sp := &recordingSpeaker{}
	sched := NewScheduler(sp, true)
	m := NewMachine(r, config.Thresholds{AdvanceMeters: 50, PreAnnounceMeters: 200}, sched)
	return m, sp
}

func at(lat float64) *route.LatLng { return &route.LatLng{Lat: lat, Lng: 0} }

func TestCheckAdvanceIncrementsExactlyOne(t *testing.T) {
	m, _ := newTestMachine(t, threeStepRoute())

	// ~33 m from step 0's end: advance to step 1, once.
	m.CheckAdvance(at(0.0003))
	require.Equal(t, 1, m.State().StepIndex)

	// Same fix again: step 1's end is ~1.1 km away, no further advance.
	for i := 0; i < 10; i++ {
		m.CheckAdvance(at(0.0003))
	}
	assert.Equal(t, 1, m.State().StepIndex)
}

func TestCheckAdvanceAnnouncesNewStepOnce(t *testing.T) {
	m, sp := newTestMachine(t, threeStepRoute())

	m.CheckAdvance(at(0.0003))
	require.Len(t, sp.spoken, 1)
	assert.Equal(t, "Turn left onto 2nd Ave", sp.spoken[0])

	// Repeated checks never re-announce the same index.
	m.CheckAdvance(at(0.0003))
	m.CheckAdvance(at(0.0004))
	assert.Len(t, sp.spoken, 1)
}

func TestPreAnnounceFiresOncePerStep(t *testing.T) {
	m, sp := newTestMachine(t, threeStepRoute())

	// ~100 m out: inside the pre-announce window.
	m.CheckAdvance(at(0.0009))
	require.Len(t, sp.spoken, 1)
	assert.Equal(t, "Prepare to turn left", sp.spoken[0])
	assert.True(t, m.State().PreAnnounceFired)

	// Still inside the window: no second pre-announcement.
	m.CheckAdvance(at(0.0008))
	m.CheckAdvance(at(0.0010))
	assert.Len(t, sp.spoken, 1)
}

func TestPreAnnounceResetsBeyondWindow(t *testing.T) {
	m, sp := newTestMachine(t, threeStepRoute())

	m.CheckAdvance(at(0.0009)) // fires
	m.CheckAdvance(at(0.0027)) // ~300 m out: clears
	assert.False(t, m.State().PreAnnounceFired)

	m.CheckAdvance(at(0.0009)) // re-entering the window fires again
	assert.Len(t, sp.spoken, 2)
}

func TestPreAnnounceSpeaksUpcomingManeuver(t *testing.T) {
	m, sp := newTestMachine(t, threeStepRoute())

	// Approaching step 0's end: the action to prepare for is step 1's turn.
	m.CheckAdvance(at(0.0009))
	require.Len(t, sp.spoken, 1)
	assert.Equal(t, "Prepare to turn left", sp.spoken[0])

	// On the final step the step's own maneuver is the arrival itself.
	m.StepForward()
	m.StepForward()
	m.CheckAdvance(at(0.0191))
	require.Len(t, sp.spoken, 4)
	assert.Equal(t, "Prepare to arrive at your destination", sp.spoken[3])
}

func TestConcurrentFixesAndQueries(t *testing.T) {
	m, _ := newTestMachine(t, threeStepRoute())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m.CheckAdvance(at(5.0)) // far from every step end
		}
	}()
	for i := 0; i < 200; i++ {
		_ = m.State()
		_, _ = m.Remaining()
		_ = m.Current()
	}
	wg.Wait()

	assert.Equal(t, 0, m.State().StepIndex)
	assert.False(t, m.Arrived())
}

func TestPreAnnounceResetsOnStepChange(t *testing.T) {
	m, _ := newTestMachine(t, threeStepRoute())

	m.CheckAdvance(at(0.0009)) // pre-announce step 0
	require.True(t, m.State().PreAnnounceFired)
	m.CheckAdvance(at(0.0003)) // advance to step 1
	assert.Equal(t, 1, m.State().StepIndex)
	assert.False(t, m.State().PreAnnounceFired)
}

func TestArrivalIsTerminal(t *testing.T) {
	m, _ := newTestMachine(t, threeStepRoute())
	arrivals := 0
	m.OnArrival = func() { arrivals++ }

	m.CheckAdvance(at(0.0003)) // -> step 1
	m.CheckAdvance(at(0.0103)) // -> step 2 (last)
	require.Equal(t, 2, m.State().StepIndex)
	require.False(t, m.Arrived())

	m.CheckAdvance(at(0.0203)) // within 50 m of the final end
	assert.True(t, m.Arrived())
	assert.Equal(t, 2, m.State().StepIndex)
	assert.Equal(t, 1, arrivals)

	// Terminal: further fixes change nothing.
	m.CheckAdvance(at(0.0203))
	m.CheckAdvance(at(0.0003))
	assert.Equal(t, 1, arrivals)
	assert.Equal(t, 2, m.State().StepIndex)
}

func TestManualSteppingClamps(t *testing.T) {
	m, sp := newTestMachine(t, threeStepRoute())

	m.StepBack() // at 0: no-op
	assert.Equal(t, 0, m.State().StepIndex)

	m.StepForward()
	m.StepForward()
	assert.Equal(t, 2, m.State().StepIndex)
	m.StepForward() // at last: no-op
	assert.Equal(t, 2, m.State().StepIndex)

	// Forward moves announced; the clamped no-op was not.
	assert.Len(t, sp.spoken, 2)

	m.StepBack()
	assert.Equal(t, 1, m.State().StepIndex)
	// Backward moves are not announced.
	assert.Len(t, sp.spoken, 2)
}

func TestMissingGeometryDisablesAutoAdvance(t *testing.T) {
	r := &route.Route{Instructions: []route.Step{
		{Instruction: "Head towards destination", Maneuver: route.ManeuverDepart},
	}}
	m, sp := newTestMachine(t, r)

	for i := 0; i < 5; i++ {
		m.CheckAdvance(at(0.0001))
	}
	assert.Equal(t, 0, m.State().StepIndex)
	assert.False(t, m.Arrived())
	assert.Empty(t, sp.spoken)

	// Manual next on the only step clamps to a no-op.
	m.StepForward()
	assert.Equal(t, 0, m.State().StepIndex)
}

func TestCheckAdvanceNilPosition(t *testing.T) {
	m, _ := newTestMachine(t, threeStepRoute())
	m.CheckAdvance(nil)
	assert.Equal(t, 0, m.State().StepIndex)
}

func TestRemaining(t *testing.T) {
	m, _ := newTestMachine(t, threeStepRoute())

	meters, seconds := m.Remaining()
	assert.Equal(t, 3100.0, meters)
	assert.Equal(t, 360.0, seconds)

	m.StepForward()
	meters, seconds = m.Remaining()
	assert.Equal(t, 2000.0, meters)
	assert.Equal(t, 240.0, seconds)
}

func TestRemainingFallsBackToRouteTotals(t *testing.T) {
	r := &route.Route{
		Instructions:         []route.Step{{Instruction: "Go"}, {Instruction: "Arrive"}},
		TotalDistanceMeters:  4200,
		TotalDurationSeconds: 600,
	}
	m, _ := newTestMachine(t, r)
	meters, seconds := m.Remaining()
	assert.Equal(t, 4200.0, meters)
	assert.Equal(t, 600.0, seconds)
}

func TestStartAnnouncesFirstStep(t *testing.T) {
	m, sp := newTestMachine(t, threeStepRoute())
	m.Start()
	require.Len(t, sp.spoken, 1)
	// Markup is stripped at normalization; spoken text is plain.
	assert.Equal(t, "Head north on Main St", sp.spoken[0])
	assert.Equal(t, 0, m.State().LastAnnouncedIndex)
}

func TestSchedulerDedupAcrossReasons(t *testing.T) {
	sp := &recordingSpeaker{}
	s := NewScheduler(sp, true)

	s.Announce(0, "step zero", ReasonInitial)
	s.Announce(0, "step zero", ReasonAdvance) // dedup
	require.Len(t, sp.spoken, 1)

	s.Announce(0, "step zero", ReasonManual) // manual is exempt
	assert.Len(t, sp.spoken, 2)

	s.Announce(0, "prepare", ReasonPreAnnounce) // pre-announce is exempt
	assert.Len(t, sp.spoken, 3)

	s.Announce(1, "step one", ReasonAdvance)
	assert.Len(t, sp.spoken, 4)
	assert.Equal(t, 1, s.LastAnnounced())
}

func TestSchedulerSingleFlight(t *testing.T) {
	sp := &recordingSpeaker{}
	s := NewScheduler(sp, true)

	s.Announce(0, "a", ReasonInitial)
	s.Announce(1, "b", ReasonAdvance)
	// Each new announcement cancels the previous one first.
	assert.Equal(t, 2, sp.cancels)
	assert.Equal(t, []string{"a", "b"}, sp.spoken)
}

func TestSchedulerVoiceToggle(t *testing.T) {
	sp := &recordingSpeaker{}
	s := NewScheduler(sp, false)

	s.Announce(0, "silent", ReasonInitial)
	require.Empty(t, sp.spoken)
	// A muted announcement must not consume the dedup slot.
	assert.Equal(t, -1, s.LastAnnounced())

	s.SetVoiceEnabled(true)
	s.Announce(0, "now audible", ReasonInitial)
	require.Len(t, sp.spoken, 1)

	// Disabling cancels in-flight speech immediately.
	cancelsBefore := sp.cancels
	s.SetVoiceEnabled(false)
	assert.Equal(t, cancelsBefore+1, sp.cancels)
}

func TestSchedulerReset(t *testing.T) {
	sp := &recordingSpeaker{}
	s := NewScheduler(sp, true)
	s.Announce(2, "x", ReasonAdvance)
	s.Reset()
	assert.Equal(t, -1, s.LastAnnounced())
}
