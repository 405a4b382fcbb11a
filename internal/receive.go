package internal

import "errors"

// receiveLoop blocks on the port's receive with a small timeout and forwards
// parsed frames to the state sink — the only path that updates externally
// visible state. The timeout bounds feedback staleness and, in dual-loop
// mode, is fully decoupled from send latency; that decoupling is the whole
// point of dual-loop mode.
func (l *Link) receiveLoop(rx Receiver) {
	defer l.wg.Done()
	defer l.log.Debug().Msg("receive loop exited")

	for l.running() {
		if !l.receiveOnce(rx) {
			return
		}
	}
}

// receiveOnce performs one bounded receive and classifies the outcome:
//   - success: tap, count, forward to the sink (synchronously; the sink
//     must not block for long)
//   - timeout: expected, counter only
//   - fatal: counted, flips the shared run flag, returns false
//   - other errors: counted as recoverable, loop continues
func (l *Link) receiveOnce(rx Receiver) bool {
	f, err := rx.Receive(l.cfg.ReceiveTimeout())
	switch {
	case err == nil:
		l.met.framesRecv.Inc()
		if l.cfg.Tap != nil {
			l.cfg.Tap(DirRx, f)
		}
		l.sink.Consume(f)
	case errors.Is(err, ErrTimeout):
		l.met.rxTimeouts.Inc()
	case IsFatal(err):
		l.met.fatalErrors.Inc()
		l.run.Stop()
		l.log.Error().Err(err).Msg("fatal receive error, stopping session")
		return false
	default:
		l.met.rxErrors.Inc()
		l.log.Warn().Err(err).Msg("receive error")
	}
	return true
}
