// Package telemetry holds the live-location sample model, the bounded
// history buffer used for path rendering, and the projector that turns raw
// samples into display-ready values.
//
// Samples are immutable values. Optional attributes (speed, heading, battery)
// are pointer fields so absence is distinguishable from zero, matching the
// inbound feed contract.
package telemetry
