package config

// Thresholds contains the proximity thresholds driving step advancement.
// Defaults match typical vehicle courier routes; kept configurable because no
// single value suits both walking and driving.
type Thresholds struct {
	AdvanceMeters     float64 `yaml:"advanceMeters" validate:"gte=0"`
	PreAnnounceMeters float64 `yaml:"preAnnounceMeters" validate:"gte=0"`
}

// StreamConfig contains live-location feed configuration
type StreamConfig struct {
	FeedURL         string `yaml:"feedURL" validate:"omitempty,url"`
	PushURL         string `yaml:"pushURL" validate:"omitempty,url"`
	DebounceMS      int    `yaml:"debounceMS" validate:"gte=0"`
	ReconnectMS     int    `yaml:"reconnectMS" validate:"gte=0"`
	ReportIntervalS int    `yaml:"reportIntervalSeconds" validate:"gte=0"`
	MinSubjectIDLen int    `yaml:"minSubjectIDLen" validate:"gte=0"`
}

// GuidanceConfig contains navigation guidance configuration
type GuidanceConfig struct {
	Thresholds   Thresholds `yaml:"thresholds"`
	VoiceEnabled *bool      `yaml:"voiceEnabled"`
}

// TelemetryConfig contains history and projection configuration
type TelemetryConfig struct {
	HistoryCapacity int `yaml:"historyCapacity" validate:"gte=0"`
}

// EngineConfig is the root configuration structure
type EngineConfig struct {
	Stream    StreamConfig    `yaml:"stream"`
	Guidance  GuidanceConfig  `yaml:"guidance"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// VoiceEnabled reports whether voice guidance starts enabled; default true.
func (c EngineConfig) VoiceEnabled() bool {
	if c.Guidance.VoiceEnabled == nil {
		return true
	}
	return *c.Guidance.VoiceEnabled
}
