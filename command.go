package servoctl

import (
	"strconv"
	"strings"
)

// ServoCount is the number of servos driven by the daemon. The wire format
// carries exactly one field per servo.
const ServoCount = 4

// Intent is one parsed per-servo instruction from an inbound message:
// either "move to Angle" or "keep the current position" (Keep set).
type Intent struct {
	Servo int
	Angle float64
	Keep  bool
}

// ParseCommand parses one wire message into per-servo intents.
//
// The format is four comma-separated fields, one per servo in order 1-4.
// A blank or whitespace-only field keeps that servo's current angle; any
// other field must be a decimal number in [MinAngle, MaxAngle]. The first
// invalid field aborts the whole message; no partial intent list is ever
// returned.
func ParseCommand(message string) ([]Intent, error) {
	fields := strings.Split(strings.TrimSpace(message), ",")
	if len(fields) != ServoCount {
		return nil, &ParseError{
			Text: "expected " + strconv.Itoa(ServoCount) + " fields, got " + strconv.Itoa(len(fields)),
			Err:  ErrFieldCount,
		}
	}

	intents := make([]Intent, 0, ServoCount)
	for i, field := range fields {
		servo := i + 1
		trimmed := strings.TrimSpace(field)
		if trimmed == "" {
			intents = append(intents, Intent{Servo: servo, Keep: true})
			continue
		}

		angle, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, &ParseError{Field: servo, Text: trimmed, Err: ErrBadNumber}
		}
		if angle < MinAngle || angle > MaxAngle {
			return nil, &ParseError{Field: servo, Text: trimmed, Err: ErrAngleRange}
		}
		intents = append(intents, Intent{Servo: servo, Angle: angle})
	}
	return intents, nil
}
