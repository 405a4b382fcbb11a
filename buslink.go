package buslink

import (
	"context"
	"time"

	"github.com/visiona/armkit/modules/buslink/internal"
)

// MaxPayload is the largest payload a classic CAN frame carries.
const MaxPayload = internal.MaxPayload

// Frame is re-exported from the internal package to avoid import cycles.
// See internal/frame.go for full documentation.
type Frame = internal.Frame

// NewFrame builds a Frame from an identifier and payload, copying at most
// MaxPayload bytes.
func NewFrame(id uint32, payload []byte) Frame {
	return internal.NewFrame(id, payload)
}

// Transport port capabilities, consumed by the core and implemented by
// drivers (or the loopback test double). See internal/port.go.
type (
	// Receiver is the receive half of a transport port.
	Receiver = internal.Receiver
	// Transmitter is the transmit half of a transport port.
	Transmitter = internal.Transmitter
	// Port is a full bidirectional transport port.
	Port = internal.Port
	// Splitter is the optional split-into-halves capability needed for
	// dual-loop mode.
	Splitter = internal.Splitter
	// TimeoutConfigurer is the optional handle-level timeout capability.
	TimeoutConfigurer = internal.TimeoutConfigurer
)

// Sink consumes successfully received frames, synchronously from the
// receive loop. Implementations must not block for long.
type Sink = internal.Sink

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc = internal.SinkFunc

// Direction labels which way a frame crossed the port (DirRx or DirTx).
type Direction = internal.Direction

// Frame direction values for TapFunc observers.
const (
	DirRx = internal.DirRx
	DirTx = internal.DirTx
)

// TapFunc observes every frame crossing the port, both directions.
type TapFunc = internal.TapFunc

// MetricsSnapshot is an immutable point-in-time copy of the session
// counters. See internal/metrics.go for per-field documentation.
type MetricsSnapshot = internal.MetricsSnapshot

// Config carries the recognized link options. See internal/config.go.
type Config = internal.Config

// Public API errors - re-exported as a stable contract.
var (
	ErrTimeout          = internal.ErrTimeout
	ErrSplitUnsupported = internal.ErrSplitUnsupported
	ErrPortClosed       = internal.ErrPortClosed
	ErrQueueFull        = internal.ErrQueueFull
	ErrStopped          = internal.ErrStopped
	ErrAlreadyStarted   = internal.ErrAlreadyStarted
)

// Fatal wraps a transport error so the core treats it as session-ending.
// Port implementations wrap device-gone / access-revoked conditions;
// everything unwrapped is handled as recoverable.
func Fatal(err error) error { return internal.Fatal(err) }

// IsFatal reports whether err was marked with Fatal.
func IsFatal(err error) bool { return internal.IsFatal(err) }

// Link is the public interface of one bus session.
//
// Design:
//   - Interface (not concrete type) for future extensibility
//   - Lifecycle: New() → Start() → Send*/Metrics() → Stop()
//   - Thread-safe: all methods safe for concurrent use
//
// Implementation is in internal/link.go (hidden from clients).
type Link interface {
	// Start spawns the session loop(s) and returns immediately.
	// Dual-loop mode needs a Splitter port; otherwise the link falls back
	// to single-loop mode with a warning. Cancelling ctx stops the session.
	Start(ctx context.Context) error

	// Stop flips the session flag and waits for every loop to observe it
	// and exit — a bounded wait, since both loops poll at bounded
	// intervals. Idempotent.
	Stop() error

	// SendRealtime places the current-cycle command in the mailbox.
	// Never blocks; an unconsumed previous command is overwritten and the
	// overwrite only recorded as a metric. Fails only with ErrStopped.
	SendRealtime(f Frame) error

	// SendReliable enqueues a must-deliver command, failing immediately
	// with ErrQueueFull when no slot is free. Callers must treat full as
	// an expected, recoverable outcome.
	SendReliable(f Frame) error

	// SendReliableTimeout is SendReliable with a bounded wait for a free
	// slot; it fails only after at least timeout elapsed with no space.
	SendReliableTimeout(f Frame, timeout time.Duration) error

	// Metrics returns a point-in-time copy of the session counters.
	Metrics() MetricsSnapshot

	// IsRunning reports whether the session loops are still live.
	IsRunning() bool

	// ID returns the session identifier (for log correlation).
	ID() string
}

// New wires a session around port and sink with the given configuration.
// The zero Config is usable (single-loop mode, default timeouts and
// capacity, no-op logger). No goroutine starts until Start.
func New(port Port, sink Sink, cfg Config) (Link, error) {
	l, err := internal.NewLink(port, sink, cfg)
	if err != nil {
		return nil, err
	}
	return l, nil
}
