package servoctl

// Servo signal limits. Standard hobby servos map a 500-2500us pulse onto
// their 0-180 degree travel.
const (
	MinAngle = 0.0
	MaxAngle = 180.0

	MinPulseUs = 500
	MaxPulseUs = 2500
)

// ToPulseWidth converts an angle in degrees to a pulse width in
// microseconds by linear interpolation between MinPulseUs and MaxPulseUs,
// truncated to a whole microsecond. Angles outside [MinAngle, MaxAngle]
// are rejected with ErrAngleRange.
func ToPulseWidth(angle float64) (int, error) {
	if angle < MinAngle || angle > MaxAngle {
		return 0, &MotionError{Value: angle, Err: ErrAngleRange}
	}
	width := MinPulseUs + (angle/MaxAngle)*(MaxPulseUs-MinPulseUs)
	return int(width), nil
}
