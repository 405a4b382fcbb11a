package internal

import "go.uber.org/atomic"

// Metrics holds the live operational counters, mutated concurrently by both
// loops and by callers of SendRealtime/SendReliable. All fields are atomic;
// readers take a Snapshot instead of touching the live counters.
type Metrics struct {
	overwrites  atomic.Uint64 // mailbox overwrote an unconsumed realtime command
	queueFull   atomic.Uint64 // reliable enqueue rejected (full / timed out)
	rxTimeouts  atomic.Uint64 // Receive elapsed with no frame (expected)
	txTimeouts  atomic.Uint64 // Send elapsed without completing (expected)
	rxErrors    atomic.Uint64 // recoverable receive errors
	txErrors    atomic.Uint64 // recoverable send errors
	fatalErrors atomic.Uint64 // session-ending transport errors
	framesRecv  atomic.Uint64 // frames delivered to the sink
	framesSent  atomic.Uint64 // frames written to the bus
}

// NewMetrics creates a zeroed counter set for one session.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSnapshot is an immutable point-in-time copy of the counters.
type MetricsSnapshot struct {
	// OverwriteCount is how many realtime commands were replaced before the
	// transmit scheduler took them. Non-zero means the transmit side cannot
	// keep up with the control cycle; that is expected under load, not an
	// error.
	OverwriteCount uint64

	// QueueFullCount is how many reliable enqueues were rejected.
	QueueFullCount uint64

	// RxTimeoutCount counts receive timeouts (expected; bounds staleness).
	RxTimeoutCount uint64

	// TxTimeoutCount counts send timeouts.
	TxTimeoutCount uint64

	// RxErrorCount counts recoverable receive errors.
	RxErrorCount uint64

	// TxErrorCount counts recoverable send errors.
	TxErrorCount uint64

	// FatalErrorCount counts session-ending transport errors.
	FatalErrorCount uint64

	// FramesReceived counts frames forwarded to the state sink.
	FramesReceived uint64

	// FramesSent counts frames successfully written to the bus.
	FramesSent uint64
}

// Snapshot returns a consistent-enough copy for monitoring. Counters are
// loaded individually; a snapshot taken while both loops run may be a few
// events stale, which is acceptable for its use cases.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		OverwriteCount:  m.overwrites.Load(),
		QueueFullCount:  m.queueFull.Load(),
		RxTimeoutCount:  m.rxTimeouts.Load(),
		TxTimeoutCount:  m.txTimeouts.Load(),
		RxErrorCount:    m.rxErrors.Load(),
		TxErrorCount:    m.txErrors.Load(),
		FatalErrorCount: m.fatalErrors.Load(),
		FramesReceived:  m.framesRecv.Load(),
		FramesSent:      m.framesSent.Load(),
	}
}
