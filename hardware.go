package servoctl

import (
	"sort"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// PulseDriver is the hardware interface consumed by the motion engine.
// Implementations translate a pulse-width-set call for one pin into
// whatever the underlying driver or daemon speaks. Calls are issued from
// a single goroutine; implementations that talk to a shared resource
// must still serialize their own I/O.
type PulseDriver interface {
	// SetPulseWidth commands the given pulse width in microseconds on a
	// pin. A width of 0 stops the servo signal entirely.
	SetPulseWidth(pin, widthUs int) error
	Close() error
}

// DriverConstructor builds a PulseDriver from the daemon configuration.
type DriverConstructor func(cfg *Config, logger logging.Logger) (PulseDriver, error)

var driverRegistry = map[string]DriverConstructor{}

// RegisterDriver makes a hardware backend available under a name that can
// be referenced from the configuration. Called from init functions.
func RegisterDriver(name string, ctor DriverConstructor) {
	if _, ok := driverRegistry[name]; ok {
		panic("driver already registered: " + name)
	}
	driverRegistry[name] = ctor
}

// NewDriver builds the hardware backend named by the configuration.
func NewDriver(cfg *Config, logger logging.Logger) (PulseDriver, error) {
	ctor, ok := driverRegistry[cfg.Backend]
	if !ok {
		return nil, errors.Errorf("unknown hardware backend %q (have %v)", cfg.Backend, DriverNames())
	}
	return ctor(cfg, logger)
}

// DriverNames returns the registered backend names, sorted.
func DriverNames() []string {
	names := make([]string, 0, len(driverRegistry))
	for name := range driverRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
