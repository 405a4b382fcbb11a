package internal

import (
	"errors"
	"time"
)

// transmitLoop is the transmit scheduler of dual-loop mode.
//
// Each iteration, while running:
//  1. mailbox first — take and send the pending realtime command, then
//     re-check the mailbox immediately (continue) so a fresh command incurs
//     at most one send-cycle of staleness
//  2. only with the mailbox empty, send one reliable command
//  3. with nothing pending, sleep the poll interval to avoid busy-spinning
//
// At most one frame goes out per pass. Realtime starves reliable only while
// realtime traffic is actively present; under continuous unbroken realtime
// traffic the reliable queue can starve indefinitely — an accepted,
// documented trade-off, not silently patched with round-robin.
func (l *Link) transmitLoop(tx Transmitter) {
	defer l.wg.Done()
	defer l.log.Debug().Msg("transmit loop exited")

	for l.running() {
		if f, ok := l.mbox.Take(); ok {
			if !l.sendOnce(tx, f) {
				return
			}
			continue
		}
		if f, ok := l.queue.TryDequeue(); ok {
			if !l.sendOnce(tx, f) {
				return
			}
			continue
		}
		time.Sleep(l.cfg.PollInterval())
	}
}

// drainOnce is the single-loop drain pass: at most one frame per call,
// mailbox preferred over the queue. Returns false on fatal error.
func (l *Link) drainOnce(tx Transmitter) bool {
	if f, ok := l.mbox.Take(); ok {
		return l.sendOnce(tx, f)
	}
	if f, ok := l.queue.TryDequeue(); ok {
		return l.sendOnce(tx, f)
	}
	return true
}

// sendOnce writes one frame and classifies the outcome:
//   - timeout: counted, loop continues (the command is consumed; resend
//     policy belongs to the layers above)
//   - fatal: counted, flips the shared run flag, returns false
//   - other errors: counted as recoverable, loop continues
func (l *Link) sendOnce(tx Transmitter, f Frame) bool {
	err := tx.Send(f, l.cfg.SendTimeout())
	switch {
	case err == nil:
		l.met.framesSent.Inc()
		if l.cfg.Tap != nil {
			l.cfg.Tap(DirTx, f)
		}
	case errors.Is(err, ErrTimeout):
		l.met.txTimeouts.Inc()
		l.log.Debug().Uint32("id", f.ID).Msg("send timed out")
	case IsFatal(err):
		l.met.fatalErrors.Inc()
		l.run.Stop()
		l.log.Error().Err(err).Msg("fatal send error, stopping session")
		return false
	default:
		l.met.txErrors.Inc()
		l.log.Warn().Err(err).Uint32("id", f.ID).Msg("send error")
	}
	return true
}
