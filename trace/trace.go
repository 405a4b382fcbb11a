// Package trace records bus traffic for offline analysis.
//
// A Recorder implements the link's Tap: every frame crossing the port, both
// directions, is appended to an io.Writer as a self-delimiting CBOR record.
// Captures survive process restarts and feed the usual offline tooling
// (replay, timing analysis, protocol decoding) without the arm attached.
//
// Usage:
//
//	f, _ := os.Create("session.cbor")
//	rec, _ := trace.NewRecorder(f)
//	link, _ := buslink.New(port, sink, buslink.Config{Tap: rec.Tap})
//
// and later, offline:
//
//	records, _ := trace.ReadAll(f)
package trace

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/atomic"

	"github.com/visiona/armkit/modules/buslink"
)

// Record is one captured frame. Integer keys keep records compact at
// kHz-rate capture.
type Record struct {
	// Time is the capture timestamp (when the frame crossed the port, not
	// when it appeared on the wire).
	Time time.Time `cbor:"1,keyasint"`

	// Dir is "rx" or "tx".
	Dir string `cbor:"2,keyasint"`

	// ID is the bus identifier.
	ID uint32 `cbor:"3,keyasint"`

	// Extended marks a 29-bit identifier.
	Extended bool `cbor:"4,keyasint,omitempty"`

	// Data is the valid payload (0..8 bytes).
	Data []byte `cbor:"5,keyasint"`
}

// Recorder appends records to a writer. Safe for concurrent use: in
// dual-loop mode the rx and tx taps fire from different goroutines.
type Recorder struct {
	mu    sync.Mutex
	enc   *cbor.Encoder
	err   error
	count atomic.Uint64
}

// NewRecorder creates a recorder writing CBOR records to w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeUnixMicro
	opts.TimeTag = cbor.EncTagRequired
	mode, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("trace: encoder setup: %w", err)
	}
	return &Recorder{enc: mode.NewEncoder(w)}, nil
}

// Tap records one frame. It matches buslink.TapFunc and is called
// synchronously from the session loops, so it must stay cheap: one encode,
// no flushing policy of its own (wrap the writer in a bufio.Writer for
// slow destinations).
//
// A write error latches: recording stops, the error is kept for Err, and
// the session loops are never disturbed.
func (r *Recorder) Tap(dir buslink.Direction, f buslink.Frame) {
	rec := Record{
		Time:     time.Now(),
		Dir:      dir.String(),
		ID:       f.ID,
		Extended: f.Extended,
		Data:     append([]byte(nil), f.Payload()...),
	}
	r.mu.Lock()
	if r.err == nil {
		if err := r.enc.Encode(rec); err != nil {
			r.err = fmt.Errorf("trace: record: %w", err)
		} else {
			r.count.Inc()
		}
	}
	r.mu.Unlock()
}

// Count returns how many records were written so far.
func (r *Recorder) Count() uint64 { return r.count.Load() }

// Err returns the latched write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// ReadAll decodes every record from a capture stream until EOF.
func ReadAll(rd io.Reader) ([]Record, error) {
	dec := cbor.NewDecoder(rd)
	var out []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("trace: decode record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}
