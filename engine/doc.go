// Package engine wires the stream client, telemetry projection, history
// buffer, and guidance machine into one tracking session.
//
// A session is event-driven and serializes internally: every inbound sample
// is fully projected and buffered before the guidance machine evaluates it,
// even when the transport delivers from its own goroutines, and teardown
// synchronously cancels all timers and closes the socket. The engine owns no
// rendering, transport framing, or persistence; hosts inject those
// capabilities and react to callbacks.
package engine
