package buslink_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/visiona/armkit/modules/buslink"
)

// TestDefaultConfig validates the documented defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := buslink.DefaultConfig()
	if cfg.ReceiveTimeout() != 2*time.Millisecond {
		t.Errorf("ReceiveTimeout=%v, want 2ms", cfg.ReceiveTimeout())
	}
	if cfg.SendTimeout() != time.Second {
		t.Errorf("SendTimeout=%v, want 1s", cfg.SendTimeout())
	}
	if cfg.PollInterval() != 50*time.Microsecond {
		t.Errorf("PollInterval=%v, want 50µs", cfg.PollInterval())
	}
	if cfg.ReliableQueueCapacity != 10 {
		t.Errorf("ReliableQueueCapacity=%d, want 10", cfg.ReliableQueueCapacity)
	}
	if !cfg.DualLoop {
		t.Error("DualLoop=false in DefaultConfig")
	}
}

// TestParseConfig validates the recognized option names and that absent
// options keep their defaults.
func TestParseConfig(t *testing.T) {
	cfg, err := buslink.ParseConfig([]byte(`
receive_timeout_ms: 5
reliable_queue_capacity: 32
dual_loop: false
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.ReceiveTimeout() != 5*time.Millisecond {
		t.Errorf("ReceiveTimeout=%v, want 5ms", cfg.ReceiveTimeout())
	}
	if cfg.ReliableQueueCapacity != 32 {
		t.Errorf("ReliableQueueCapacity=%d, want 32", cfg.ReliableQueueCapacity)
	}
	if cfg.DualLoop {
		t.Error("DualLoop=true, want false")
	}
	// Untouched options keep defaults.
	if cfg.SendTimeout() != time.Second {
		t.Errorf("SendTimeout=%v, want default 1s", cfg.SendTimeout())
	}
}

// TestParseConfigEmpty validates that empty input yields the defaults.
func TestParseConfigEmpty(t *testing.T) {
	cfg, err := buslink.ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig(nil): %v", err)
	}
	if cfg.ReliableQueueCapacity != 10 || !cfg.DualLoop {
		t.Errorf("empty config did not yield defaults: %+v", cfg)
	}
}

// TestParseConfigUnknownKey validates that option typos surface instead of
// silently falling back to a default.
func TestParseConfigUnknownKey(t *testing.T) {
	if _, err := buslink.ParseConfig([]byte("recieve_timeout_ms: 5\n")); err == nil {
		t.Error("ParseConfig accepted an unknown option name")
	}
}

// TestLoadConfig validates the file path.
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buslink.yaml")
	if err := os.WriteFile(path, []byte("send_timeout_ms: 250\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := buslink.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SendTimeout() != 250*time.Millisecond {
		t.Errorf("SendTimeout=%v, want 250ms", cfg.SendTimeout())
	}

	if _, err := buslink.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig on missing file succeeded")
	}
}
