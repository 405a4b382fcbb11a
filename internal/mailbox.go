package internal

import "sync"

// Mailbox is the single-slot holding cell for the most recent realtime
// command.
//
// Semantics:
//   - Put never blocks and never fails; a new value replaces any unconsumed
//     previous value (latest wins)
//   - Replacing an unconsumed value increments the overwrite counter — the
//     signal that the transmit side cannot keep up
//   - Take atomically removes and returns the current value, or reports
//     empty; it never blocks
//
// Safe for one writer and one reader running concurrently with no
// caller-side locking. More writers are tolerated (mutex-protected) but the
// design assumes a single control thread.
type Mailbox struct {
	mu    sync.Mutex
	frame Frame
	full  bool // true while frame holds an unconsumed value
	met   *Metrics
}

// NewMailbox creates an empty mailbox reporting overwrites to met.
func NewMailbox(met *Metrics) *Mailbox {
	return &Mailbox{met: met}
}

// Put stores f, replacing any unconsumed value.
func (m *Mailbox) Put(f Frame) {
	m.mu.Lock()
	if m.full {
		m.met.overwrites.Inc()
	}
	m.frame = f
	m.full = true
	m.mu.Unlock()
}

// Take removes and returns the pending value, if any.
func (m *Mailbox) Take() (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return Frame{}, false
	}
	m.full = false
	return m.frame, true
}

// Pending reports whether an unconsumed value is waiting.
func (m *Mailbox) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.full
}
