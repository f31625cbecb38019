package servoctl

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Defaults applied by Validate.
const (
	DefaultListenAddr = ":5005"
	DefaultBackend    = "pigpio"
)

// DefaultPins are the hardware pins for servos 1-4 (BCM numbering for the
// pigpio backend, channel/ID numbers for the serial backends).
var DefaultPins = []int{12, 13, 18, 19}

// Config is the daemon configuration, loaded from a JSON file. Zero
// values are filled in by Validate; pin bindings are immutable once the
// engine has been built from them.
type Config struct {
	// ListenAddr is the UDP address commands arrive on.
	ListenAddr string `json:"listen_addr,omitempty"`

	// Backend selects the hardware driver: "pigpio", "maestro",
	// "feetech" or "mock".
	Backend string `json:"backend,omitempty"`

	// PigpioAddr is the pigpiod daemon address for the pigpio backend.
	PigpioAddr string `json:"pigpio_addr,omitempty"`

	// SerialPort and SerialBaud configure the serial backends. Baud rate
	// defaults are per backend (115200 for maestro, 1000000 for feetech).
	SerialPort string `json:"serial_port,omitempty"`
	SerialBaud int    `json:"serial_baud,omitempty"`

	// Pins binds servos 1-4, in order, to hardware pins.
	Pins []int `json:"pins,omitempty"`

	// Smooth enables interpolated movement. Defaults to true.
	Smooth *bool `json:"smooth,omitempty"`

	// StepDelayMs is the pause between interpolation steps.
	StepDelayMs int `json:"step_delay_ms,omitempty"`
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err) // defaults always validate
	}
	return cfg
}

// Validate fills in defaults and rejects inconsistent settings.
func (cfg *Config) Validate() error {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.PigpioAddr == "" {
		cfg.PigpioAddr = DefaultPigpioAddr
	}
	if len(cfg.Pins) == 0 {
		cfg.Pins = append([]int(nil), DefaultPins...)
	}
	if len(cfg.Pins) != ServoCount {
		return errors.Errorf("expected %d pins, got %d", ServoCount, len(cfg.Pins))
	}
	seen := make(map[int]bool, ServoCount)
	for _, pin := range cfg.Pins {
		if pin < 0 {
			return errors.Errorf("invalid pin %d", pin)
		}
		if seen[pin] {
			return errors.Errorf("pin %d bound to more than one servo", pin)
		}
		seen[pin] = true
	}
	if cfg.Smooth == nil {
		smooth := true
		cfg.Smooth = &smooth
	}
	if cfg.StepDelayMs < 0 {
		return errors.New("step_delay_ms cannot be negative")
	}
	if cfg.StepDelayMs == 0 {
		cfg.StepDelayMs = int(DefaultStepDelay / time.Millisecond)
	}
	return nil
}

// Smoothing reports whether interpolated movement is enabled.
func (cfg *Config) Smoothing() bool {
	return cfg.Smooth == nil || *cfg.Smooth
}

// StepDelay returns the per-step pause as a duration.
func (cfg *Config) StepDelay() time.Duration {
	return time.Duration(cfg.StepDelayMs) * time.Millisecond
}

// LoadConfig reads and validates a JSON config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config as indented JSON.
func (cfg *Config) Save(path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
