package servoctl

import (
	"encoding/binary"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// DefaultPigpioAddr is where pigpiod listens unless configured otherwise.
const DefaultPigpioAddr = "localhost:8888"

const (
	// pigpiod socket command numbers.
	pigpioCmdServo = 8

	pigpioDialTimeout = 5 * time.Second
)

func init() {
	RegisterDriver("pigpio", func(cfg *Config, logger logging.Logger) (PulseDriver, error) {
		return DialPigpio(cfg.PigpioAddr, logger)
	})
}

// pigpioRequest is the 16-byte little-endian command frame of the pigpiod
// socket interface. Responses echo the same layout with the result in the
// final word.
type pigpioRequest struct {
	Cmd uint32
	P1  uint32
	P2  uint32
	P3  uint32
}

// PigpioDriver drives servos through a running pigpiod daemon over its
// TCP socket interface.
type PigpioDriver struct {
	mu     sync.Mutex
	conn   net.Conn
	logger logging.Logger
}

// DialPigpio connects to a pigpiod daemon. Failure here is fatal to
// startup; the daemon cannot run without a hardware connection.
func DialPigpio(addr string, logger logging.Logger) (*PigpioDriver, error) {
	conn, err := net.DialTimeout("tcp", addr, pigpioDialTimeout)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to pigpio daemon at %s", addr)
	}
	logger.Infof("connected to pigpio daemon at %s", addr)
	return &PigpioDriver{conn: conn, logger: logger}, nil
}

// SetPulseWidth issues a SERVO command for one GPIO pin. pigpiod replies
// to every command; a negative result word is a daemon-side error.
func (d *PigpioDriver) SetPulseWidth(pin, widthUs int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return ErrNotConnected
	}

	req := pigpioRequest{Cmd: pigpioCmdServo, P1: uint32(pin), P2: uint32(widthUs)}
	if err := binary.Write(d.conn, binary.LittleEndian, req); err != nil {
		return errors.Wrap(err, "write to pigpio daemon")
	}

	var resp pigpioRequest
	if err := binary.Read(d.conn, binary.LittleEndian, &resp); err != nil {
		return errors.Wrap(err, "read pigpio daemon response")
	}
	if res := int32(resp.P3); res < 0 {
		return errors.Errorf("pigpio daemon rejected servo command on pin %d: status %d", pin, res)
	}
	return nil
}

// Close closes the daemon connection.
func (d *PigpioDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	if err != nil {
		return errors.Wrap(err, "close pigpio connection")
	}
	d.logger.Info("pigpio connection closed")
	return nil
}
