package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults for the tunables; applied after load wherever the file is silent.
const (
	DefaultAdvanceMeters     = 50.0
	DefaultPreAnnounceMeters = 200.0
	DefaultDebounceMS        = 500
	DefaultReconnectMS       = 3000
	DefaultReportIntervalS   = 15
	DefaultMinSubjectIDLen   = 3
	DefaultHistoryCapacity   = 100
)

// Default returns an EngineConfig with every tunable at its default value.
func Default() EngineConfig {
	var cfg EngineConfig
	applyDefaults(&cfg)
	return cfg
}

// Load reads and validates the engine configuration from the given path; an
// empty path tries engine.yml in the working directory. A missing file is not
// an error: defaults are returned.
func Load(path string) (EngineConfig, error) {
	paths := []string{path}
	if path == "" {
		paths = []string{"engine.yml", "./config/engine.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		if path == "" && os.IsNotExist(err) {
			return Default(), nil
		}
		return EngineConfig{}, err
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return EngineConfig{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *EngineConfig) {
	if cfg.Guidance.Thresholds.AdvanceMeters == 0 {
		cfg.Guidance.Thresholds.AdvanceMeters = DefaultAdvanceMeters
	}
	if cfg.Guidance.Thresholds.PreAnnounceMeters == 0 {
		cfg.Guidance.Thresholds.PreAnnounceMeters = DefaultPreAnnounceMeters
	}
	if cfg.Stream.DebounceMS == 0 {
		cfg.Stream.DebounceMS = DefaultDebounceMS
	}
	if cfg.Stream.ReconnectMS == 0 {
		cfg.Stream.ReconnectMS = DefaultReconnectMS
	}
	if cfg.Stream.ReportIntervalS == 0 {
		cfg.Stream.ReportIntervalS = DefaultReportIntervalS
	}
	if cfg.Stream.MinSubjectIDLen == 0 {
		cfg.Stream.MinSubjectIDLen = DefaultMinSubjectIDLen
	}
	if cfg.Telemetry.HistoryCapacity == 0 {
		cfg.Telemetry.HistoryCapacity = DefaultHistoryCapacity
	}
}
