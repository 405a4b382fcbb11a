package internal

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared by the core and by Port implementations.
// Mapped to public errors in the buslink package.
var (
	// ErrTimeout reports that a bounded Receive or Send elapsed without
	// completing. Timeouts are expected outcomes, never fatal.
	ErrTimeout = errors.New("buslink: operation timed out")

	// ErrSplitUnsupported reports that a Port cannot be split into
	// independent receive and transmit halves.
	ErrSplitUnsupported = errors.New("buslink: port does not support split")

	// ErrPortClosed reports that the device handle is gone. Port
	// implementations should wrap it with Fatal.
	ErrPortClosed = errors.New("buslink: port closed")

	// ErrQueueFull reports that the reliable queue has no free slot.
	ErrQueueFull = errors.New("buslink: reliable queue full")

	// ErrStopped reports that the link session has ended.
	ErrStopped = errors.New("buslink: link stopped")

	// ErrAlreadyStarted reports a second Start on the same session.
	ErrAlreadyStarted = errors.New("buslink: link already started")
)

// Receiver is the receive half of a transport port.
//
// Receive blocks for at most timeout and returns the next frame, ErrTimeout
// when none arrived, or an error. Errors wrapped with Fatal end the session;
// anything else is recoverable and the caller keeps looping.
type Receiver interface {
	Receive(timeout time.Duration) (Frame, error)
}

// Transmitter is the transmit half of a transport port.
//
// Send blocks for at most timeout. Under fault conditions a single Send may
// use its full timeout; the core is built so this never stalls the receive
// path in dual-loop mode.
type Transmitter interface {
	Send(f Frame, timeout time.Duration) error
}

// Port is the narrowest capability the core needs from a physical bus
// driver. Implementations (USB bulk transfer, kernel socket, loopback test
// double) live outside this core.
type Port interface {
	Receiver
	Transmitter
}

// Splitter is an optional Port capability: split one device handle into a
// receive half and a transmit half that may be driven concurrently.
//
// Precondition on the implementation, not enforced here: concurrent access
// to the two data directions of the shared handle must be race-free.
type Splitter interface {
	Split() (Receiver, Transmitter, error)
}

// TimeoutConfigurer is an optional Port capability for drivers that hold
// handle-level timeouts. The core applies the configured timeouts once at
// Start; it still passes explicit bounds to every Receive and Send.
type TimeoutConfigurer interface {
	ConfigureReceiveTimeout(d time.Duration)
	ConfigureSendTimeout(d time.Duration)
}

// Sink consumes successfully received frames. It is invoked synchronously
// from the receive loop and must not block for long.
type Sink interface {
	Consume(f Frame)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(f Frame)

// Consume implements Sink.
func (fn SinkFunc) Consume(f Frame) { fn(f) }

// Direction labels which way a frame crossed the port.
type Direction uint8

const (
	// DirRx marks a frame received from the bus.
	DirRx Direction = iota
	// DirTx marks a frame sent to the bus.
	DirTx
)

// String returns "rx" or "tx".
func (d Direction) String() string {
	if d == DirTx {
		return "tx"
	}
	return "rx"
}

// TapFunc observes every frame crossing the port, both directions.
// Called synchronously from the loops; keep it cheap.
type TapFunc func(dir Direction, f Frame)

// fatalError marks a transport error that ends the session.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return fmt.Sprintf("buslink: fatal: %v", e.err) }

func (e *fatalError) Unwrap() error { return e.err }

// Fatal wraps err so the core treats it as session-ending (device gone,
// access revoked). Wrapping nil returns nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err (or anything it wraps) was marked with Fatal.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}
