package telemetry

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// History is a bounded FIFO of recent samples, consumed for path rendering.
// Length never exceeds the configured capacity; the oldest entries are
// evicted on overflow. Safe for concurrent use.
type History struct {
	mu       sync.Mutex
	capacity int
	samples  []LocationSample
}

// NewHistory creates a history buffer. Capacity values below 1 fall back
// to 100.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 100
	}
	return &History{capacity: capacity, samples: make([]LocationSample, 0, capacity)}
}

// Append adds a sample, evicting from the front once over capacity.
func (h *History) Append(s LocationSample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = append(h.samples, s)
	if len(h.samples) > h.capacity {
		overflow := len(h.samples) - h.capacity
		copy(h.samples, h.samples[overflow:])
		h.samples = h.samples[:h.capacity]
	}
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// Capacity returns the configured maximum length.
func (h *History) Capacity() int { return h.capacity }

// Samples returns the retained samples oldest first. The returned slice is a
// copy; the buffer is never mutated in place by consumers.
func (h *History) Samples() []LocationSample {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LocationSample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Latest returns the most recent sample, or false when the buffer is empty.
func (h *History) Latest() (LocationSample, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.samples) == 0 {
		return LocationSample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// PathGeoJSON exports the retained path as a GeoJSON LineString feature for
// map rendering. Returns nil with fewer than two points.
func (h *History) PathGeoJSON() *geojson.Feature {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.samples) < 2 {
		return nil
	}
	ls := make(orb.LineString, 0, len(h.samples))
	for _, s := range h.samples {
		ls = append(ls, orb.Point{s.Lng, s.Lat})
	}
	return geojson.NewFeature(ls)
}
