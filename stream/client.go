package stream

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/rider-nav/config"
	"github.com/theoremus-urban-solutions/rider-nav/telemetry"
)

// ConnState is the subscription connection state. Exactly one is active at a
// time per client.
type ConnState string

const (
	StateDisabled         ConnState = "disabled"
	StateDebouncing       ConnState = "debouncing"
	StateConnecting       ConnState = "connecting"
	StateOpen             ConnState = "open"
	StateReconnectPending ConnState = "reconnect_pending"
	StateClosed           ConnState = "closed"
)

// Events are the typed callbacks a client emits toward the host.
type Events struct {
	OnSample    func(telemetry.LocationSample)
	OnState     func(ConnState)
	OnKeepalive func()
}

// Client manages the long-lived subscription to a subject's location feed.
//
// The client serializes internally: methods, timer callbacks, and transport
// callbacks may arrive on any goroutine and are applied one at a time. Host
// events fire while the client is locked, so event handlers must not call
// back into the client. Transport callbacks are bound to a dial generation;
// events from a superseded socket are ignored.
type Client struct {
	cfg    config.StreamConfig
	dialer Dialer
	timers Timers
	clock  Clock
	events Events

	mu              sync.Mutex
	state           ConnState
	subjectID       string
	conn            Conn
	cancelDebounce  func()
	cancelReconnect func()
	gen             int
}

// NewClient creates a client in the Disabled state.
func NewClient(cfg config.StreamConfig, dialer Dialer, timers Timers, clock Clock, events Events) *Client {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Client{
		cfg:    cfg,
		dialer: dialer,
		timers: timers,
		clock:  clock,
		events: events,
		state:  StateDisabled,
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubjectID returns the currently tracked subject identifier.
func (c *Client) SubjectID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subjectID
}

// SetSubjectID changes the tracked subject. Valid identifiers enter a
// debounce window before dialing, so a connection is not opened per
// keystroke. Invalidating the identifier tears down any socket and timers.
func (c *Client) SetSubjectID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subjectID = id
	c.cancelTimers()

	if len(id) < c.cfg.MinSubjectIDLen {
		if c.conn != nil || c.state == StateConnecting || c.state == StateReconnectPending || c.state == StateOpen {
			c.closeConn()
			c.setState(StateClosed)
		} else {
			c.setState(StateDisabled)
		}
		return
	}

	// A new cycle always closes the previous socket first.
	c.closeConn()
	c.setState(StateDebouncing)
	debounce := time.Duration(c.cfg.DebounceMS) * time.Millisecond
	c.cancelDebounce = c.timers.After(debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cancelDebounce = nil
		if c.state == StateDebouncing && c.subjectID == id {
			c.connect()
		}
	})
}

// Close tears the subscription down: all pending timers are cancelled and
// any open socket is closed with the manual close code, synchronously.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimers()
	c.closeConn()
	c.setState(StateClosed)
}

// connect dials the feed. Caller holds the lock.
func (c *Client) connect() {
	c.setState(StateConnecting)
	c.gen++
	gen := c.gen
	cb := ConnCallbacks{
		OnOpen:    func() { c.onOpen(gen) },
		OnMessage: func(data []byte) { c.onMessage(gen, data) },
		OnClose:   func(code int, err error) { c.onClose(gen, code, err) },
	}
	conn, err := c.dialer.Dial(c.subscribeURL(), cb)
	if err != nil {
		log.Printf("stream: dial for %q failed: %v", c.subjectID, err)
		c.scheduleReconnect()
		return
	}
	c.conn = conn
}

func (c *Client) onOpen(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.setState(StateOpen)
}

func (c *Client) onMessage(gen int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	sample, err := telemetry.ParseEnvelope(data, c.clock.Now())
	if err != nil {
		if errors.Is(err, telemetry.ErrKeepalive) {
			if c.events.OnKeepalive != nil {
				c.events.OnKeepalive()
			}
			return
		}
		// Bad payloads are dropped; the connection stays open.
		log.Printf("stream: dropping message for %q: %v", c.subjectID, err)
		return
	}
	if c.events.OnSample != nil {
		c.events.OnSample(sample)
	}
}

func (c *Client) onClose(gen int, code int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.conn = nil
	if code == CloseCodeManual {
		c.setState(StateClosed)
		return
	}
	if err != nil {
		log.Printf("stream: connection for %q lost (code %d): %v", c.subjectID, code, err)
	}
	c.scheduleReconnect()
}

// scheduleReconnect arms the fixed-delay retry. Caller holds the lock.
func (c *Client) scheduleReconnect() {
	c.setState(StateReconnectPending)
	if c.cancelReconnect != nil {
		c.cancelReconnect()
	}
	delay := time.Duration(c.cfg.ReconnectMS) * time.Millisecond
	c.cancelReconnect = c.timers.After(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cancelReconnect = nil
		if c.state == StateReconnectPending && len(c.subjectID) >= c.cfg.MinSubjectIDLen {
			c.connect()
		}
	})
}

func (c *Client) closeConn() {
	// Bumping the generation ignores any late callbacks from this socket.
	c.gen++
	if c.conn != nil {
		_ = c.conn.Close(CloseCodeManual)
		c.conn = nil
	}
}

func (c *Client) cancelTimers() {
	if c.cancelDebounce != nil {
		c.cancelDebounce()
		c.cancelDebounce = nil
	}
	if c.cancelReconnect != nil {
		c.cancelReconnect()
		c.cancelReconnect = nil
	}
}

func (c *Client) setState(s ConnState) {
	if c.state == s {
		return
	}
	c.state = s
	if c.events.OnState != nil {
		c.events.OnState(s)
	}
}

func (c *Client) subscribeURL() string {
	return strings.TrimRight(c.cfg.FeedURL, "/") + "/" + url.PathEscape(c.subjectID)
}
