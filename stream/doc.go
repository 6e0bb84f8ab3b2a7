// Package stream maintains the live-location feed subscription.
//
// The observer side (Client) is a connection state machine tolerant of rapid
// subject-id changes and transient network failures: subject edits are
// debounced before dialing, abnormal closes schedule a fixed-delay reconnect,
// and manual teardown uses a distinguishable close code so no reconnect is
// ever scheduled after it. The reporting side (Reporter) pushes the subject's
// position to an external endpoint on a fixed interval while online.
//
// Transport, timers, and the clock are injected capabilities so the state
// machines are testable without sockets or real time. The client serializes
// internally, so transport and timer callbacks may arrive on any goroutine.
// The production transport adapter is backed by gorilla/websocket.
package stream
