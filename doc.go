// Package buslink implements the real-time input/output concurrency core of
// a robotic-arm control SDK speaking a CAN-style fieldbus.
//
// # Philosophy
//
// "The newest intent always wins. An instruction never disappears."
//
// The arm runs closed-loop control at 500 Hz–1 kHz while the bus transport
// can exhibit highly variable latency (a single write may block up to ~1s
// under fault conditions). buslink moves command and feedback traffic
// between application goroutines and the transport with bounded, predictable
// latency by keeping two delivery policies strictly apart:
//
//   - Realtime commands: latest-value-only. A single-slot mailbox is
//     overwritten on every write; stale intent is dropped by design and the
//     overwrite is only recorded as a metric.
//   - Reliable commands: must-deliver. A bounded FIFO that never reorders
//     and never silently drops; when full, the caller is told explicitly.
//
// # Design Principles
//
//  1. Non-blocking SendRealtime: always returns immediately (~1µs)
//  2. Physical separation: in dual-loop mode receive and transmit run as two
//     independently scheduled goroutines, so a stalled send never delays the
//     path responsible for state freshness
//  3. Bounded everything: every blocking point is timeout-bounded by
//     construction; there is no unbounded wait anywhere
//  4. One flag, one session: a fresh atomically-polled running flag per
//     session coordinates shutdown across both loops without races
//  5. Operational metrics: atomic counters (overwrites, queue-full,
//     timeouts, fatal errors), snapshot on demand
//
// # Architecture
//
// buslink sits between the control application and a transport Port:
//
//	control thread → SendRealtime → Mailbox  ─┐
//	app goroutines → SendReliable → Queue    ─┤→ transmit scheduler → Port.Send
//	                                           │   (mailbox first, one frame
//	                                           │    per pass, re-check mailbox
//	                                           │    after every send)
//	Port.Receive → receive loop → state Sink ◄─┘   (independent in dual-loop)
//
// The Port (USB bulk-transfer driver, kernel-socket driver, the in-repo
// loopback test double) is an external collaborator consumed through a small
// interface; buslink is payload-agnostic and defines no wire format.
//
// # Basic Usage
//
//	sink := buslink.SinkFunc(func(f buslink.Frame) { state.Apply(f) })
//	link, err := buslink.New(port, sink, buslink.Config{DualLoop: true})
//	if err != nil {
//	    log.Fatal().Err(err).Msg("link setup failed")
//	}
//	if err := link.Start(ctx); err != nil {
//	    log.Fatal().Err(err).Msg("link start failed")
//	}
//	defer link.Stop()
//
//	// Control cycle @ 1 kHz
//	link.SendRealtime(buslink.NewFrame(0x155, jointCmd))
//
//	// Mode switch: must not be lost
//	if err := link.SendReliable(buslink.NewFrame(0x471, modeCmd)); err != nil {
//	    // ErrQueueFull is expected and recoverable, not fatal
//	}
//
// # Error Taxonomy
//
//   - Timeout (ErrTimeout): expected, counted, loop continues
//   - Recoverable transport error: counted, logged, loop continues
//   - Fatal transport error (wrapped with Fatal, tested with IsFatal):
//     flips the session flag; both loops exit within one polling interval
//   - Capacity (ErrQueueFull): surfaced synchronously to the caller
//   - Overwrite: expected, counter only
//
// # Monitoring
//
//	m := link.Metrics()
//	if m.OverwriteCount > 0 {
//	    // transmit side slower than the control cycle (expected under load)
//	}
//	if m.QueueFullCount > 0 {
//	    // reliable producers outrunning the bus
//	}
//
// Overwrites and drops are NOT errors. They indicate latest-wins semantics
// working correctly.
//
// # Thread Safety
//
// All Link methods are safe for concurrent use. The mailbox assumes one
// writer (the control thread) and one reader (the transmit scheduler) but
// tolerates more. The shared device handle behind a split port must permit
// race-free concurrent access to its two data directions — a documented
// precondition on the Port implementation, not enforced here.
//
// # Lifecycle
//
//  1. New(port, sink, cfg): wire a session (fresh flag, fresh counters)
//  2. Start(ctx): spawn the loop(s)
//  3. SendRealtime/SendReliable: normal operation
//  4. Stop(): flip the flag, wait for both loops to observe it (bounded by
//     max(receive timeout, transmit poll interval)); idempotent
//
// After Stop (or a fatal transport error), IsRunning reports false and the
// Send methods return ErrStopped.
package buslink
