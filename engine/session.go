package engine

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/rider-nav/config"
	"github.com/theoremus-urban-solutions/rider-nav/guidance"
	"github.com/theoremus-urban-solutions/rider-nav/route"
	"github.com/theoremus-urban-solutions/rider-nav/stream"
	"github.com/theoremus-urban-solutions/rider-nav/telemetry"
)

// Deps are the capabilities a session consumes. Dialer and Timers are
// required; Clock defaults to the wall clock and Speaker to a no-op.
type Deps struct {
	Dialer  stream.Dialer
	Timers  stream.Timers
	Clock   stream.Clock
	Speaker guidance.Speaker
}

// Callbacks are the host-facing notifications. All are optional.
type Callbacks struct {
	OnDisplay    func(telemetry.Display)
	OnConnState  func(stream.ConnState)
	OnStepChange func(index int, step route.Step)
	OnArrival    func()
}

// Session binds one tracked subject to a stream client, history buffer,
// projector, and (while navigating) a guidance machine.
//
// The session serializes internally, so its methods and the transport's
// delivery goroutines may run concurrently. One sample is processed fully
// before the next begins.
type Session struct {
	id        string
	cfg       config.EngineConfig
	clock     stream.Clock
	client    *stream.Client
	history   *telemetry.History
	projector telemetry.Projector
	sched     *guidance.Scheduler
	callbacks Callbacks

	mu      sync.Mutex
	machine *guidance.Machine
}

// NewSession creates a session. Navigation starts separately via
// StartNavigation; tracking starts when a subject id is set.
func NewSession(cfg config.EngineConfig, deps Deps, callbacks Callbacks) *Session {
	clock := deps.Clock
	if clock == nil {
		clock = stream.SystemClock{}
	}
	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		clock:     clock,
		history:   telemetry.NewHistory(cfg.Telemetry.HistoryCapacity),
		sched:     guidance.NewScheduler(deps.Speaker, cfg.VoiceEnabled()),
		callbacks: callbacks,
	}
	s.client = stream.NewClient(cfg.Stream, deps.Dialer, deps.Timers, clock, stream.Events{
		OnSample: s.handleSample,
		OnState:  s.handleConnState,
	})
	return s
}

// ID returns the session identifier used for log correlation.
func (s *Session) ID() string { return s.id }

// Track switches the session to the given subject id. The stream client
// applies its debounce and validity rules.
func (s *Session) Track(subjectID string) {
	log.Printf("engine: session %s tracking %q", s.id, subjectID)
	s.client.SetSubjectID(subjectID)
}

// StartNavigation begins guidance along the given route. Any previous
// navigation state is discarded.
func (s *Session) StartNavigation(r *route.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.Reset()
	s.machine = guidance.NewMachine(r, s.cfg.Guidance.Thresholds, s.sched)
	s.machine.OnStepChange = s.callbacks.OnStepChange
	s.machine.OnArrival = s.callbacks.OnArrival
	s.machine.Start()
}

// StopNavigation ends guidance; tracking continues.
func (s *Session) StopNavigation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return
	}
	s.sched.Reset()
	s.machine = nil
}

// Machine exposes the active guidance machine for manual stepping and
// progress queries; nil while not navigating.
func (s *Session) Machine() *guidance.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine
}

// History exposes the sample history for path rendering.
func (s *Session) History() *telemetry.History { return s.history }

// SetVoiceEnabled toggles voice guidance; disabling cancels in-flight speech.
func (s *Session) SetVoiceEnabled(enabled bool) { s.sched.SetVoiceEnabled(enabled) }

// ConnState returns the stream connection state.
func (s *Session) ConnState() stream.ConnState { return s.client.State() }

// Close tears the session down synchronously: timers cancelled, socket
// closed with the manual code, navigation state discarded.
func (s *Session) Close() {
	s.client.Close()
	s.StopNavigation()
}

// handleSample runs the full per-event pipeline in order: project, buffer,
// then advance-check. Never interleaved; one sample is finished before the
// next begins.
func (s *Session) handleSample(sample telemetry.LocationSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	display := s.projector.Project(sample, s.clock.Now())
	s.history.Append(sample)
	if s.machine != nil {
		s.machine.CheckAdvance(&route.LatLng{Lat: sample.Lat, Lng: sample.Lng})
	}
	if s.callbacks.OnDisplay != nil {
		s.callbacks.OnDisplay(display)
	}
}

func (s *Session) handleConnState(state stream.ConnState) {
	log.Printf("engine: session %s stream %s", s.id, state)
	if s.callbacks.OnConnState != nil {
		s.callbacks.OnConnState(state)
	}
}
