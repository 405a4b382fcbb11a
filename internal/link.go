// Package internal implements the buslink realtime I/O core.
//
// This package is INTERNAL - clients MUST use the public API in the parent
// package. Reason: allows internal refactoring without breaking changes.
package internal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Link is one bus session: the realtime mailbox, the reliable queue, the
// metrics set, one shared run flag, and the loop(s) that move frames across
// the port.
//
// Goroutine topology:
//   - dual-loop mode: receiveLoop + transmitLoop (independently scheduled,
//     sharing the split port handle)
//   - single-loop mode: one combinedLoop interleaving both duties
//
// Both loops poll the run flag every iteration; either one flips it on a
// fatal transport error and the other exits at its next check. No error
// value crosses the goroutine boundary directly.
type Link struct {
	cfg  Config
	port Port
	sink Sink
	log  zerolog.Logger
	id   string

	mbox  *Mailbox
	queue *Queue
	met   *Metrics
	run   *RunState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stateMu sync.Mutex
	started bool
	stopped bool
}

// NewLink wires a session around port and sink. It does not start any
// goroutine; call Start.
func NewLink(port Port, sink Sink, cfg Config) (*Link, error) {
	if port == nil {
		return nil, errors.New("buslink: nil port")
	}
	if sink == nil {
		return nil, errors.New("buslink: nil sink")
	}
	cfg = cfg.WithDefaults()

	met := NewMetrics()
	id := uuid.New().String()
	return &Link{
		cfg:   cfg,
		port:  port,
		sink:  sink,
		log:   cfg.Logger.With().Str("link", id).Logger(),
		id:    id,
		mbox:  NewMailbox(met),
		queue: NewQueue(cfg.ReliableQueueCapacity, met),
		met:   met,
		run:   NewRunState(),
	}, nil
}

// ID returns the session identifier (for log correlation).
func (l *Link) ID() string { return l.id }

// Start spawns the session loops and returns immediately.
//
// Dual-loop mode needs a port that implements Splitter; when the split is
// unsupported the link logs a warning and falls back to single-loop mode
// rather than failing, so callers can request dual-loop opportunistically.
//
// Cancelling ctx stops the session the same way Stop does.
func (l *Link) Start(ctx context.Context) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true
	l.ctx, l.cancel = context.WithCancel(ctx)

	// Hand the configured bounds to drivers that hold handle-level
	// timeouts. The loops still pass explicit bounds on every call.
	if tc, ok := l.port.(TimeoutConfigurer); ok {
		tc.ConfigureReceiveTimeout(l.cfg.ReceiveTimeout())
		tc.ConfigureSendTimeout(l.cfg.SendTimeout())
	}

	if l.cfg.DualLoop {
		if sp, ok := l.port.(Splitter); ok {
			rx, tx, err := sp.Split()
			if err == nil {
				l.log.Debug().Msg("link started (dual-loop)")
				l.wg.Add(2)
				go l.receiveLoop(rx)
				go l.transmitLoop(tx)
				return nil
			}
			if !errors.Is(err, ErrSplitUnsupported) {
				l.started = false
				l.cancel()
				return err
			}
		}
		l.log.Warn().Msg("dual-loop requested but port cannot split; falling back to single-loop")
	}

	l.log.Debug().Msg("link started (single-loop)")
	l.wg.Add(1)
	go l.combinedLoop()
	return nil
}

// Stop ends the session: flips the shared flag, then waits for every loop
// to observe it and exit. The wait is bounded because both loops poll at
// bounded intervals (receive timeout, transmit poll interval).
//
// Idempotent: subsequent calls return nil without waiting twice.
func (l *Link) Stop() error {
	l.stateMu.Lock()
	if !l.started || l.stopped {
		l.stateMu.Unlock()
		return nil
	}
	l.stopped = true
	l.stateMu.Unlock()

	l.run.Stop()
	l.cancel()
	l.wg.Wait()
	l.log.Debug().Msg("link stopped")
	return nil
}

// IsRunning reports whether the session loops are still live. It turns
// false after Stop, after ctx cancellation, or after a fatal transport
// error in either loop.
func (l *Link) IsRunning() bool {
	l.stateMu.Lock()
	started := l.started
	l.stateMu.Unlock()
	return started && l.run.Running()
}

// SendRealtime places the current-cycle command in the mailbox. It never
// blocks; an unconsumed previous command is overwritten and only recorded
// as a metric. Fails only when the session has ended.
func (l *Link) SendRealtime(f Frame) error {
	if !l.run.Running() {
		return ErrStopped
	}
	l.mbox.Put(f)
	return nil
}

// SendReliable enqueues a must-deliver command, failing immediately with
// ErrQueueFull when no slot is free. Full is an expected, recoverable
// outcome for the caller, never absorbed silently by the core.
func (l *Link) SendReliable(f Frame) error {
	if !l.run.Running() {
		return ErrStopped
	}
	return l.queue.TryEnqueue(f)
}

// SendReliableTimeout is SendReliable with a bounded wait for a free slot.
func (l *Link) SendReliableTimeout(f Frame, timeout time.Duration) error {
	if !l.run.Running() {
		return ErrStopped
	}
	return l.queue.EnqueueTimeout(f, timeout)
}

// Metrics returns a point-in-time copy of the session counters.
func (l *Link) Metrics() MetricsSnapshot {
	return l.met.Snapshot()
}

// running is the per-iteration poll shared by all loops: the session flag
// plus caller cancellation.
func (l *Link) running() bool {
	if l.ctx.Err() != nil {
		l.run.Stop()
	}
	return l.run.Running()
}

// combinedLoop is single-loop mode: one goroutine interleaves transmit
// draining and receiving. The drain pass runs both before and after the
// receive ("double drain") to shrink the window a pending realtime command
// would otherwise wait for the next receive timeout. Dual-loop mode does
// not need this mitigation.
func (l *Link) combinedLoop() {
	defer l.wg.Done()
	for l.running() {
		if !l.drainOnce(l.port) {
			return
		}
		if !l.receiveOnce(l.port) {
			return
		}
		if !l.drainOnce(l.port) {
			return
		}
	}
}
