package internal

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults for the recognized configuration options. The receive timeout is
// small on purpose: it alone bounds feedback staleness, and in dual-loop
// mode it is fully decoupled from send latency.
const (
	DefaultReceiveTimeout = 2 * time.Millisecond
	DefaultSendTimeout    = time.Second
	DefaultPollInterval   = 50 * time.Microsecond
)

// Config carries the recognized link options.
//
// The zero value is usable: New fills in defaults for unset durations and
// capacity, the logger defaults to zerolog.Nop(), and DualLoop=false runs
// the single-loop mode. Durations are expressed in integer units matching
// the on-disk option names (see buslink.ParseConfig).
type Config struct {
	// ReceiveTimeoutMS bounds every Receive call, in milliseconds.
	// It also bounds feedback staleness and stop latency on the receive
	// side. Default 2.
	ReceiveTimeoutMS int `yaml:"receive_timeout_ms"`

	// SendTimeoutMS bounds every Send call, in milliseconds. A faulting
	// transport may use all of it on a single write. Default 1000.
	SendTimeoutMS int `yaml:"send_timeout_ms"`

	// TransmitPollIntervalUS is the idle sleep of the transmit scheduler,
	// in microseconds. An anti-spin measure only, not correctness-relevant.
	// Default 50.
	TransmitPollIntervalUS int `yaml:"transmit_poll_interval_us"`

	// ReliableQueueCapacity bounds the reliable FIFO. Default 10.
	ReliableQueueCapacity int `yaml:"reliable_queue_capacity"`

	// DualLoop runs receive and transmit as two independently scheduled
	// goroutines over a split port. Requires the port to implement
	// Splitter; when it does not, the link falls back to single-loop mode.
	DualLoop bool `yaml:"dual_loop"`

	// Logger receives loop lifecycle and error events. Defaults to a no-op
	// logger; the core stays quiet unless the operator opts in.
	Logger zerolog.Logger `yaml:"-"`

	// Tap, when set, observes every frame crossing the port in either
	// direction (e.g. a trace recorder). Called synchronously; keep cheap.
	Tap TapFunc `yaml:"-"`
}

// WithDefaults returns cfg with unset numeric options replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.ReceiveTimeoutMS <= 0 {
		c.ReceiveTimeoutMS = int(DefaultReceiveTimeout / time.Millisecond)
	}
	if c.SendTimeoutMS <= 0 {
		c.SendTimeoutMS = int(DefaultSendTimeout / time.Millisecond)
	}
	if c.TransmitPollIntervalUS <= 0 {
		c.TransmitPollIntervalUS = int(DefaultPollInterval / time.Microsecond)
	}
	if c.ReliableQueueCapacity <= 0 {
		c.ReliableQueueCapacity = DefaultQueueCapacity
	}
	return c
}

// ReceiveTimeout returns the receive bound as a duration.
func (c Config) ReceiveTimeout() time.Duration {
	return time.Duration(c.ReceiveTimeoutMS) * time.Millisecond
}

// SendTimeout returns the send bound as a duration.
func (c Config) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMS) * time.Millisecond
}

// PollInterval returns the transmit idle sleep as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.TransmitPollIntervalUS) * time.Microsecond
}
