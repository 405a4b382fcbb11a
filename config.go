package buslink

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the documented option defaults with dual-loop mode
// enabled. Use it as the base when only a few options need overriding.
func DefaultConfig() Config {
	cfg := Config{DualLoop: true}
	return cfg.WithDefaults()
}

// ParseConfig decodes YAML options over the defaults. Recognized options:
//
//	receive_timeout_ms: 2
//	send_timeout_ms: 1000
//	transmit_poll_interval_us: 50
//	reliable_queue_capacity: 10
//	dual_loop: true
//
// Absent options keep their defaults; unknown keys are rejected so a typo
// in an option name surfaces instead of silently using a default.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("buslink: parse config: %w", err)
	}
	return cfg.WithDefaults(), nil
}

// LoadConfig reads and parses a YAML options file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("buslink: read config: %w", err)
	}
	return ParseConfig(data)
}
