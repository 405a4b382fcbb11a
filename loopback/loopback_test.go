package loopback_test

import (
	"errors"
	"testing"
	"time"

	"github.com/visiona/armkit/modules/buslink"
	"github.com/visiona/armkit/modules/buslink/loopback"
)

// TestPairExchange validates basic cross-connection: frames sent on one
// endpoint arrive on the other, both directions.
func TestPairExchange(t *testing.T) {
	a, b := loopback.New(4)

	if err := a.Send(buslink.NewFrame(0x10, []byte{1}), time.Second); err != nil {
		t.Fatalf("a.Send: %v", err)
	}
	f, err := b.Receive(time.Second)
	if err != nil {
		t.Fatalf("b.Receive: %v", err)
	}
	if f.ID != 0x10 {
		t.Errorf("b got %#x, want 0x10", f.ID)
	}

	if err := b.Send(buslink.NewFrame(0x20, nil), time.Second); err != nil {
		t.Fatalf("b.Send: %v", err)
	}
	if f, err = a.Receive(time.Second); err != nil || f.ID != 0x20 {
		t.Errorf("a.Receive=(%#x,%v), want 0x20", f.ID, err)
	}
}

// TestReceiveTimeout validates that an idle endpoint reports ErrTimeout
// after roughly the requested bound.
func TestReceiveTimeout(t *testing.T) {
	a, _ := loopback.New(1)

	start := time.Now()
	_, err := a.Receive(20 * time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, buslink.ErrTimeout) {
		t.Fatalf("Receive on idle pair: got %v, want ErrTimeout", err)
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("Receive returned after %v, want >= 20ms", elapsed)
	}
	if buslink.IsFatal(err) {
		t.Error("timeout classified as fatal")
	}
}

// TestSendTimeout validates backpressure: a full buffer with no reader
// times out rather than blocking forever.
func TestSendTimeout(t *testing.T) {
	a, _ := loopback.New(1)

	if err := a.Send(buslink.NewFrame(1, nil), 20*time.Millisecond); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if err := a.Send(buslink.NewFrame(2, nil), 20*time.Millisecond); !errors.Is(err, buslink.ErrTimeout) {
		t.Fatalf("second Send: got %v, want ErrTimeout", err)
	}
}

// TestSplitHalves validates that the split views drive the same endpoint.
func TestSplitHalves(t *testing.T) {
	a, b := loopback.New(4)

	rx, tx, err := a.Split()
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if err := tx.Send(buslink.NewFrame(0x30, nil), time.Second); err != nil {
		t.Fatalf("tx.Send: %v", err)
	}
	if f, err := b.Receive(time.Second); err != nil || f.ID != 0x30 {
		t.Errorf("b.Receive=(%#x,%v), want 0x30", f.ID, err)
	}

	if err := b.Send(buslink.NewFrame(0x40, nil), time.Second); err != nil {
		t.Fatalf("b.Send: %v", err)
	}
	if f, err := rx.Receive(time.Second); err != nil || f.ID != 0x40 {
		t.Errorf("rx.Receive=(%#x,%v), want 0x40", f.ID, err)
	}
}

// TestCloseIsFatal validates that a closed endpoint behaves like a gone
// device: both sides fail fatally, and Close is idempotent.
func TestCloseIsFatal(t *testing.T) {
	a, b := loopback.New(1)
	a.Close()
	a.Close()

	if _, err := a.Receive(time.Millisecond); !buslink.IsFatal(err) {
		t.Errorf("Receive on closed endpoint: got %v, want fatal", err)
	}
	if err := b.Send(buslink.NewFrame(1, nil), time.Millisecond); !buslink.IsFatal(err) {
		t.Errorf("Send toward closed endpoint: got %v, want fatal", err)
	}
}

// TestSendHook validates fault injection.
func TestSendHook(t *testing.T) {
	a, _ := loopback.New(1)
	boom := errors.New("injected")
	a.SetSendHook(func(buslink.Frame) error { return buslink.Fatal(boom) })

	err := a.Send(buslink.NewFrame(1, nil), time.Millisecond)
	if !buslink.IsFatal(err) || !errors.Is(err, boom) {
		t.Errorf("hooked Send: got %v, want injected fatal", err)
	}

	a.SetSendHook(nil)
	if err := a.Send(buslink.NewFrame(1, nil), time.Millisecond); err != nil {
		t.Errorf("Send after hook removed: %v", err)
	}
}

// TestConfiguredDefaultTimeouts validates the TimeoutConfigurer capability:
// a non-positive bound falls back to the configured default.
func TestConfiguredDefaultTimeouts(t *testing.T) {
	a, _ := loopback.New(1)
	a.ConfigureReceiveTimeout(15 * time.Millisecond)

	start := time.Now()
	if _, err := a.Receive(0); !errors.Is(err, buslink.ErrTimeout) {
		t.Fatalf("Receive(0): got %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("Receive(0) returned after %v, want >= configured 15ms", elapsed)
	}
}
