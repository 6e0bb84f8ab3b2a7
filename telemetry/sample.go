package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Envelope message types accepted from the live-location feed.
const (
	TypeLocationUpdate  = "location_update"
	TypeInitialLocation = "initial_location"
	TypePong            = "pong"
)

// ErrKeepalive marks a pong envelope: valid traffic, no sample payload.
var ErrKeepalive = errors.New("keepalive message")

// LocationSample is one position report for a tracked subject.
type LocationSample struct {
	Lat        float64
	Lng        float64
	Timestamp  time.Time
	SpeedKMH   *float64
	HeadingDeg *float64
	BatteryPct *float64
	Status     string
}

// Envelope is the discriminated JSON message received from the feed.
type Envelope struct {
	Type     string `json:"type"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Status       string   `json:"status,omitempty"`
	SpeedKMH     *float64 `json:"speed_kmh,omitempty"`
	Heading      *float64 `json:"heading,omitempty"`
	BatteryLevel *float64 `json:"battery_level,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
}

// ParseEnvelope decodes one inbound feed message into a sample. Pong
// envelopes return ErrKeepalive. Malformed JSON, unknown types, and location
// updates missing their coordinates return an error; the caller logs and
// drops, never tears down the connection.
func ParseEnvelope(data []byte, now time.Time) (LocationSample, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return LocationSample{}, fmt.Errorf("malformed envelope: %w", err)
	}
	switch env.Type {
	case TypePong:
		return LocationSample{}, ErrKeepalive
	case TypeLocationUpdate, TypeInitialLocation:
	default:
		return LocationSample{}, fmt.Errorf("unknown envelope type %q", env.Type)
	}
	if env.Location == nil {
		return LocationSample{}, errors.New("envelope missing location")
	}

	ts := now
	if env.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, env.Timestamp); err == nil {
			ts = parsed
		}
	}
	return LocationSample{
		Lat:        env.Location.Latitude,
		Lng:        env.Location.Longitude,
		Timestamp:  ts,
		SpeedKMH:   env.SpeedKMH,
		HeadingDeg: env.Heading,
		BatteryPct: env.BatteryLevel,
		Status:     env.Status,
	}, nil
}
