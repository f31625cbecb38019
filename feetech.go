package servoctl

import (
	"context"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// STS servos use a 12-bit position range.
const feetechMaxCount = 4095

func init() {
	RegisterDriver("feetech", func(cfg *Config, logger logging.Logger) (PulseDriver, error) {
		return OpenFeetech(cfg.SerialPort, cfg.SerialBaud, cfg.Pins, logger)
	})
}

// FeetechDriver bridges the pulse-width contract onto a Feetech STS
// serial servo bus: the pulse width is mapped linearly onto the 0-4095
// count range. Pins are bus servo IDs for this backend.
type FeetechDriver struct {
	bus    *feetech.Bus
	group  *feetech.ServoGroup
	logger logging.Logger
}

// OpenFeetech opens the bus and enables torque on every configured servo.
func OpenFeetech(portName string, baudRate int, ids []int, logger logging.Logger) (*FeetechDriver, error) {
	if portName == "" {
		return nil, errors.New("serial_port is required for the feetech backend")
	}
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     portName,
		BaudRate: baudRate, // library default when zero
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open feetech bus on %s", portName)
	}

	group := feetech.NewServoGroupByIDs(bus, ids...)
	if err := group.EnableAll(context.Background()); err != nil {
		bus.Close()
		return nil, errors.Wrap(err, "enable servos")
	}
	logger.Infof("connected to feetech bus on %s, servo IDs %v", portName, ids)
	return &FeetechDriver{bus: bus, group: group, logger: logger}, nil
}

// SetPulseWidth converts the width to a position count and writes it to
// the servo with the matching bus ID. Width 0 (park) disables torque
// instead, since a bus servo has no pulse to withhold.
func (d *FeetechDriver) SetPulseWidth(pin, widthUs int) error {
	ctx := context.Background()
	servo := d.group.ServoByID(pin)
	if servo == nil {
		return &MotionError{Servo: pin, Err: ErrUnknownServo}
	}
	if widthUs == 0 {
		return servo.Disable(ctx)
	}

	count := (widthUs - MinPulseUs) * feetechMaxCount / (MaxPulseUs - MinPulseUs)
	if count < 0 {
		count = 0
	}
	if count > feetechMaxCount {
		count = feetechMaxCount
	}
	if err := servo.SetPosition(ctx, count); err != nil {
		return errors.Wrapf(err, "feetech servo %d", pin)
	}
	return nil
}

// Close disables torque and closes the bus.
func (d *FeetechDriver) Close() error {
	if err := d.group.DisableAll(context.Background()); err != nil {
		d.logger.Warnf("failed to disable servos: %v", err)
	}
	return d.bus.Close()
}
