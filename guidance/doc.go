// Package guidance implements turn-by-turn guidance over a normalized step
// sequence: a state machine that advances through steps from live position
// fixes, and a scheduler that owns the single voice announcement channel.
//
// The machine is event-driven and serializes internally. Callers feed it
// position fixes in arrival order; each fix is evaluated fully before the
// next. Missing geometry degrades automatic advance to manual-only, never to
// a failure.
package guidance
