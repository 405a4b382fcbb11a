// Package loopback provides an in-memory, cross-connected pair of transport
// ports for tests, examples and hardware-free development.
//
// New returns two ports wired back to back: whatever one side sends, the
// other side receives. Both ports support Split, so dual-loop sessions run
// against them unchanged. Frames cross through buffered channels; there is
// no wire format and no encoding.
//
// This is a test double, not a bus driver. Physical transports (USB bulk
// transfer, kernel socket) live outside the core and implement the same
// Port capability set.
package loopback

import (
	"time"

	"go.uber.org/atomic"

	"github.com/visiona/armkit/modules/buslink"
)

// DefaultBuffer is the per-direction frame buffer when New is given a
// non-positive size.
const DefaultBuffer = 64

// wire is one direction of the pair: a frame channel plus a closed marker
// shared by both endpoints of that direction.
type wire struct {
	ch     chan buslink.Frame
	closed *atomic.Bool
}

// Port is one endpoint of an in-memory pair. Safe for concurrent use; the
// receive and transmit directions share no state beyond their channels, so
// Split is trivially race-free.
type Port struct {
	in  wire // frames arriving at this endpoint
	out wire // frames leaving this endpoint

	recvTimeout atomic.Duration // default bound when Receive gets 0
	sendTimeout atomic.Duration

	sendHook atomic.Value // func(buslink.Frame) error, test fault injection
}

// New creates a cross-connected pair with the given per-direction buffer.
func New(buffer int) (a, b *Port) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ab := wire{ch: make(chan buslink.Frame, buffer), closed: atomic.NewBool(false)}
	ba := wire{ch: make(chan buslink.Frame, buffer), closed: atomic.NewBool(false)}
	a = &Port{in: ba, out: ab}
	b = &Port{in: ab, out: ba}
	return a, b
}

// Receive returns the next frame arriving at this endpoint, waiting at most
// timeout (or the configured default when timeout <= 0). A closed endpoint
// reports a fatal error, like a device that is gone.
func (p *Port) Receive(timeout time.Duration) (buslink.Frame, error) {
	if p.in.closed.Load() {
		return buslink.Frame{}, buslink.Fatal(buslink.ErrPortClosed)
	}
	if timeout <= 0 {
		timeout = p.recvTimeout.Load()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f := <-p.in.ch:
		return f, nil
	case <-timer.C:
		if p.in.closed.Load() {
			return buslink.Frame{}, buslink.Fatal(buslink.ErrPortClosed)
		}
		return buslink.Frame{}, buslink.ErrTimeout
	}
}

// Send delivers a frame to the peer endpoint, waiting at most timeout for
// buffer space (or the configured default when timeout <= 0).
func (p *Port) Send(f buslink.Frame, timeout time.Duration) error {
	if hook, ok := p.sendHook.Load().(func(buslink.Frame) error); ok && hook != nil {
		if err := hook(f); err != nil {
			return err
		}
	}
	if p.out.closed.Load() {
		return buslink.Fatal(buslink.ErrPortClosed)
	}
	if timeout <= 0 {
		timeout = p.sendTimeout.Load()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case p.out.ch <- f:
		return nil
	case <-timer.C:
		return buslink.ErrTimeout
	}
}

// Split exposes the two directions as independent halves sharing this
// endpoint. The halves are views over the same channels; driving them from
// two goroutines is race-free.
func (p *Port) Split() (buslink.Receiver, buslink.Transmitter, error) {
	return recvHalf{p}, sendHalf{p}, nil
}

// ConfigureReceiveTimeout sets the default bound used when Receive is
// called with a non-positive timeout. Implements buslink.TimeoutConfigurer.
func (p *Port) ConfigureReceiveTimeout(d time.Duration) { p.recvTimeout.Store(d) }

// ConfigureSendTimeout sets the default bound used when Send is called with
// a non-positive timeout.
func (p *Port) ConfigureSendTimeout(d time.Duration) { p.sendTimeout.Store(d) }

// Close marks both directions of this endpoint gone. Subsequent operations
// on either side of the pair fail fatally, as a revoked device handle would.
// Idempotent.
func (p *Port) Close() {
	p.in.closed.Store(true)
	p.out.closed.Store(true)
}

// SetSendHook installs fn in front of every Send, for fault injection in
// tests (added latency, forced timeouts, fatal errors). A nil fn removes
// the hook.
func (p *Port) SetSendHook(fn func(buslink.Frame) error) {
	if fn == nil {
		fn = func(buslink.Frame) error { return nil }
	}
	p.sendHook.Store(fn)
}

type recvHalf struct{ p *Port }

func (h recvHalf) Receive(timeout time.Duration) (buslink.Frame, error) {
	return h.p.Receive(timeout)
}

type sendHalf struct{ p *Port }

func (h sendHalf) Send(f buslink.Frame, timeout time.Duration) error {
	return h.p.Send(f, timeout)
}

// Compile-time assertions for the optional capabilities.
var (
	_ buslink.Port              = (*Port)(nil)
	_ buslink.Splitter          = (*Port)(nil)
	_ buslink.TimeoutConfigurer = (*Port)(nil)
)
