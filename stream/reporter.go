package stream

import (
	"log"
	"time"

	"github.com/theoremus-urban-solutions/rider-nav/config"
)

// PushLocation is the coordinate payload of an outbound position push.
type PushLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PositionPush is the periodic report sent to the external location-update
// endpoint while the subject is online.
type PositionPush struct {
	RiderID         string       `json:"rider_id"`
	CurrentLocation PushLocation `json:"current_location"`
	Status          string       `json:"status"`
	SpeedKMH        *float64     `json:"speed_kmh,omitempty"`
	Heading         *float64     `json:"heading,omitempty"`
}

// Pusher delivers one position push to the external endpoint.
type Pusher interface {
	Push(p PositionPush) error
}

// Reporter is the reporting side of the engine: it pushes the subject's last
// known position on a fixed interval while online. Push failures are logged
// and retried on the next tick; there is no separate retry loop.
type Reporter struct {
	riderID  string
	interval time.Duration
	pusher   Pusher
	timers   Timers

	online     bool
	hasFix     bool
	last       PositionPush
	cancelTick func()
}

// NewReporter creates a reporter for one rider.
func NewReporter(riderID string, cfg config.StreamConfig, pusher Pusher, timers Timers) *Reporter {
	interval := time.Duration(cfg.ReportIntervalS) * time.Second
	if interval <= 0 {
		interval = time.Duration(config.DefaultReportIntervalS) * time.Second
	}
	return &Reporter{riderID: riderID, interval: interval, pusher: pusher, timers: timers}
}

// SetOnline starts or stops the periodic push loop. Going online pushes
// immediately and then on every interval; going offline cancels the pending
// tick.
func (r *Reporter) SetOnline(online bool) {
	if r.online == online {
		return
	}
	r.online = online
	if online {
		r.tick()
		return
	}
	r.stopTick()
}

// UpdatePosition records the latest fix; it is carried by subsequent pushes.
func (r *Reporter) UpdatePosition(lat, lng float64, speedKMH, heading *float64) {
	r.last.RiderID = r.riderID
	r.last.CurrentLocation = PushLocation{Latitude: lat, Longitude: lng}
	r.last.SpeedKMH = speedKMH
	r.last.Heading = heading
	r.hasFix = true
}

// SetStatus records the current delivery/availability status carried by
// subsequent pushes.
func (r *Reporter) SetStatus(status string) {
	r.last.Status = status
}

// Stop halts reporting and cancels the pending tick.
func (r *Reporter) Stop() {
	r.online = false
	r.stopTick()
}

func (r *Reporter) tick() {
	if !r.online {
		return
	}
	if r.hasFix {
		if err := r.pusher.Push(r.last); err != nil {
			log.Printf("stream: position push for %q failed: %v", r.riderID, err)
		}
	}
	r.cancelTick = r.timers.After(r.interval, func() {
		r.cancelTick = nil
		r.tick()
	})
}

func (r *Reporter) stopTick() {
	if r.cancelTick != nil {
		r.cancelTick()
		r.cancelTick = nil
	}
}
