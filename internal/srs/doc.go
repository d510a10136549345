// Package srs implements the card scheduling core: a forgetting-curve
// scheduler, the legacy SM-2 ease-factor scheduler behind the same Strategy
// interface, and streaming per-card learning metrics.
//
// Every operation is a pure function of its arguments; "now" is always
// passed in explicitly, so nothing here touches the wall clock, logs, or
// performs I/O. Cards go in by value and come back updated; persisting them
// is the caller's job.
package srs
