package servoctl

import (
	"go.viam.com/rdk/logging"
)

func init() {
	RegisterDriver("mock", func(cfg *Config, logger logging.Logger) (PulseDriver, error) {
		return &MockDriver{}, nil
	})
}

// PulseCall records one pulse-width set issued to a MockDriver.
type PulseCall struct {
	Pin     int
	WidthUs int
}

// MockDriver implements PulseDriver for testing. It records every call
// and can be primed to fail.
type MockDriver struct {
	Calls  []PulseCall
	SetErr error
	Closed bool

	// SetFunc allows custom behavior for complex tests.
	SetFunc func(pin, widthUs int) error
}

func (m *MockDriver) SetPulseWidth(pin, widthUs int) error {
	if m.SetFunc != nil {
		return m.SetFunc(pin, widthUs)
	}
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Calls = append(m.Calls, PulseCall{Pin: pin, WidthUs: widthUs})
	return nil
}

func (m *MockDriver) Close() error {
	m.Closed = true
	return nil
}

// CallsForPin returns the recorded calls for one pin, in order.
func (m *MockDriver) CallsForPin(pin int) []PulseCall {
	var out []PulseCall
	for _, call := range m.Calls {
		if call.Pin == pin {
			out = append(out, call)
		}
	}
	return out
}
