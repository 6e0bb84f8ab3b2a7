package stream

import "time"

// CloseCodeManual is the close code used for deliberate teardown. The close
// handler sees it and skips reconnect scheduling.
const CloseCodeManual = 4000

// Conn is one live feed connection. The Client owns at most one at a time.
type Conn interface {
	WriteJSON(v any) error
	// Close closes the connection with the given close code.
	Close(code int) error
}

// ConnCallbacks receive connection lifecycle events. The transport may
// deliver them from its own goroutine; the Client serializes them before any
// state is touched.
type ConnCallbacks struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnClose   func(code int, err error)
}

// Dialer is the socket-like transport capability. Dial returns immediately;
// connection establishment is reported through OnOpen or OnClose.
type Dialer interface {
	Dial(url string, cb ConnCallbacks) (Conn, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Timers is the timer capability: schedule a callback, get back its cancel.
type Timers interface {
	After(d time.Duration, fn func()) (cancel func())
}

// SystemTimers schedules on the runtime timer wheel.
type SystemTimers struct{}

func (SystemTimers) After(d time.Duration, fn func()) (cancel func()) {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
