package guidance

import "sync"

// Speaker is the voice capability consumed by the scheduler. Hosts back it
// with their speech-synthesis binding; NoopSpeaker serves when none exists.
type Speaker interface {
	// Speak starts speaking the given plain text.
	Speak(text string)
	// Cancel stops any in-progress speech.
	Cancel()
}

// NoopSpeaker discards all speech requests.
type NoopSpeaker struct{}

func (NoopSpeaker) Speak(string) {}
func (NoopSpeaker) Cancel()      {}

// Reason classifies why an announcement was requested.
type Reason string

const (
	ReasonInitial     Reason = "initial"
	ReasonAdvance     Reason = "advance"
	ReasonPreAnnounce Reason = "pre-announce"
	ReasonManual      Reason = "manual"
)

// Scheduler dispatches voice announcements with single-flight semantics: at
// most one announcement in flight, and a given step index auto-announced at
// most once. It exclusively owns the speech channel; no other component
// issues spoken output. Safe for concurrent use.
type Scheduler struct {
	mu            sync.Mutex
	speaker       Speaker
	voiceEnabled  bool
	lastAnnounced int
}

// NewScheduler creates a scheduler over the given speaker. A nil speaker is
// replaced with NoopSpeaker.
func NewScheduler(speaker Speaker, voiceEnabled bool) *Scheduler {
	if speaker == nil {
		speaker = NoopSpeaker{}
	}
	return &Scheduler{speaker: speaker, voiceEnabled: voiceEnabled, lastAnnounced: -1}
}

// Announce requests an announcement for a step. Initial and advance reasons
// are deduplicated against the last announced index; manual and pre-announce
// reasons represent distinct intents and always go through. The text must
// already be markup-free.
func (s *Scheduler) Announce(stepIndex int, text string, reason Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.voiceEnabled {
		return
	}
	switch reason {
	case ReasonInitial, ReasonAdvance:
		if stepIndex == s.lastAnnounced {
			return
		}
		s.lastAnnounced = stepIndex
	case ReasonManual:
		s.lastAnnounced = stepIndex
	case ReasonPreAnnounce:
		// Fires once per step by machine rule; does not mark the step announced.
	}
	s.speaker.Cancel()
	s.speaker.Speak(text)
}

// SetVoiceEnabled toggles voice output. Disabling cancels in-flight speech
// immediately; step display updates are unaffected either way.
func (s *Scheduler) SetVoiceEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voiceEnabled && !enabled {
		s.speaker.Cancel()
	}
	s.voiceEnabled = enabled
}

// VoiceEnabled reports the current toggle state.
func (s *Scheduler) VoiceEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceEnabled
}

// LastAnnounced returns the last auto-announced step index, -1 for none.
func (s *Scheduler) LastAnnounced() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAnnounced
}

// Reset clears the dedup state for a new navigation session.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaker.Cancel()
	s.lastAnnounced = -1
}
