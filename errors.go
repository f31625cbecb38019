package servoctl

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrAngleRange   = errors.New("angle out of range")
	ErrUnknownServo = errors.New("unknown servo")
	ErrFieldCount   = errors.New("wrong field count")
	ErrBadNumber    = errors.New("invalid number")
	ErrNotConnected = errors.New("not connected to hardware")
)

// ParseError reports a malformed field in one inbound command message.
// Field is the 1-based field position, which is also the servo number.
type ParseError struct {
	Field int
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrFieldCount) {
		return e.Err.Error() + ": " + e.Text
	}
	return fmt.Sprintf("field %d (%q): %v", e.Field, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MotionError reports a rejected motion request for a single servo. It is
// always raised before any hardware call for the offending command.
type MotionError struct {
	Servo int
	Value float64
	Err   error
}

func (e *MotionError) Error() string {
	if errors.Is(e.Err, ErrUnknownServo) {
		return fmt.Sprintf("servo %d: %v", e.Servo, e.Err)
	}
	return fmt.Sprintf("servo %d: angle %g out of range [%g, %g]", e.Servo, e.Value, MinAngle, MaxAngle)
}

func (e *MotionError) Unwrap() error {
	return e.Err
}

// GetMotionError extracts a MotionError from an error chain, if present.
func GetMotionError(err error) (*MotionError, bool) {
	var motionErr *MotionError
	if errors.As(err, &motionErr) {
		return motionErr, true
	}
	return nil, false
}
