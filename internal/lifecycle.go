package internal

import "go.uber.org/atomic"

// RunState is the session-wide running flag, jointly owned by every loop in
// a session. It starts true and transitions to false exactly once, never
// back; each new session constructs a fresh RunState (never a process-wide
// singleton).
//
// Both loops poll it at the top of every iteration, so an externally
// requested stop is observed within one polling interval — bounded by
// max(receive timeout, transmit poll interval).
type RunState struct {
	running atomic.Bool
}

// NewRunState creates a flag in the running state.
func NewRunState() *RunState {
	r := &RunState{}
	r.running.Store(true)
	return r
}

// Running reports whether the session is still live.
func (r *RunState) Running() bool {
	return r.running.Load()
}

// Stop flips the flag to false. Idempotent; returns true only for the call
// that performed the transition.
func (r *RunState) Stop() bool {
	return r.running.CompareAndSwap(true, false)
}
