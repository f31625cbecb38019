package servoctl

import (
	"sync"

	"github.com/pkg/errors"
	serial "go.bug.st/serial"
	"go.viam.com/rdk/logging"
)

// Pololu Maestro compact serial protocol.
const (
	maestroCmdSetTarget = 0x84

	// The Maestro expresses targets in quarter-microseconds.
	maestroQuartersPerUs = 4

	defaultMaestroBaud = 115200
)

func init() {
	RegisterDriver("maestro", func(cfg *Config, logger logging.Logger) (PulseDriver, error) {
		baud := cfg.SerialBaud
		if baud == 0 {
			baud = defaultMaestroBaud
		}
		return OpenMaestro(cfg.SerialPort, baud, logger)
	})
}

// serialPort is the slice of the serial port surface the driver needs.
type serialPort interface {
	Write(p []byte) (n int, err error)
	Close() error
}

// MaestroDriver drives servos attached to a Pololu Maestro servo
// controller over its serial interface. Pins are Maestro channel numbers.
type MaestroDriver struct {
	mu     sync.Mutex
	port   serialPort
	logger logging.Logger
}

// OpenMaestro opens the Maestro's serial port.
func OpenMaestro(portName string, baudRate int, logger logging.Logger) (*MaestroDriver, error) {
	if portName == "" {
		return nil, errors.New("serial_port is required for the maestro backend")
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open maestro serial port %s", portName)
	}
	logger.Infof("connected to maestro on %s at %d baud", portName, baudRate)
	return &MaestroDriver{port: port, logger: logger}, nil
}

// SetPulseWidth issues a compact-protocol set-target command. The target
// rides in two 7-bit payload bytes, low bits first.
func (d *MaestroDriver) SetPulseWidth(pin, widthUs int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		return ErrNotConnected
	}

	target := widthUs * maestroQuartersPerUs
	cmd := []byte{
		maestroCmdSetTarget,
		byte(pin),
		byte(target & 0x7f),
		byte((target >> 7) & 0x7f),
	}
	if _, err := d.port.Write(cmd); err != nil {
		return errors.Wrapf(err, "maestro set target on channel %d", pin)
	}
	return nil
}

// Close closes the serial port.
func (d *MaestroDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	return err
}
