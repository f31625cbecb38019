package servoctl

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// Smoothing parameters. Smooth moves advance one whole degree per step
// with a fixed delay between steps, so a 90 degree sweep takes 90 steps
// spread over 1.8 seconds at the default delay.
const (
	// MinStepDeg is the largest move that skips interpolation entirely.
	MinStepDeg = 1.0
	// DefaultStepDelay is the pause between interpolation steps.
	DefaultStepDelay = 20 * time.Millisecond
)

// Engine owns the commanded angle of every servo and is the only writer
// of that state. All angles default to MinAngle at construction; there is
// no persistence across restarts.
//
// The engine is synchronous: a move call does not return until the last
// pulse-width set has been issued, and the per-step delay blocks the
// caller. Synchronized multi-servo movement is achieved by interleaving
// hardware calls within this single thread of control, not by running
// servos concurrently.
type Engine struct {
	driver    PulseDriver
	pins      map[int]int // servo number -> hardware pin, fixed for the process lifetime
	current   map[int]float64
	stepDelay time.Duration
	logger    logging.Logger
}

// NewEngine creates a motion engine over the given driver. pins maps each
// servo (in order, servo 1 first) to its hardware pin.
func NewEngine(driver PulseDriver, pins []int, stepDelay time.Duration, logger logging.Logger) (*Engine, error) {
	if len(pins) != ServoCount {
		return nil, errors.Errorf("expected %d pins, got %d", ServoCount, len(pins))
	}
	pinMap := make(map[int]int, ServoCount)
	current := make(map[int]float64, ServoCount)
	for i, pin := range pins {
		pinMap[i+1] = pin
		current[i+1] = MinAngle
	}
	if stepDelay < 0 {
		return nil, errors.New("step delay cannot be negative")
	}
	return &Engine{
		driver:    driver,
		pins:      pinMap,
		current:   current,
		stepDelay: stepDelay,
		logger:    logger,
	}, nil
}

// Angle returns the last commanded angle of a servo.
func (e *Engine) Angle(servo int) (float64, error) {
	angle, ok := e.current[servo]
	if !ok {
		return 0, &MotionError{Servo: servo, Err: ErrUnknownServo}
	}
	return angle, nil
}

// Angles returns a copy of the last commanded angle of every servo.
func (e *Engine) Angles() map[int]float64 {
	out := make(map[int]float64, len(e.current))
	for servo, angle := range e.current {
		out[servo] = angle
	}
	return out
}

// Pin returns the hardware pin a servo is bound to.
func (e *Engine) Pin(servo int) (int, error) {
	pin, ok := e.pins[servo]
	if !ok {
		return 0, &MotionError{Servo: servo, Err: ErrUnknownServo}
	}
	return pin, nil
}

func (e *Engine) validate(servo int, target float64) error {
	if _, ok := e.pins[servo]; !ok {
		return &MotionError{Servo: servo, Err: ErrUnknownServo}
	}
	if target < MinAngle || target > MaxAngle {
		return &MotionError{Servo: servo, Value: target, Err: ErrAngleRange}
	}
	return nil
}

func (e *Engine) setPulse(servo int, angle float64) error {
	width, err := ToPulseWidth(angle)
	if err != nil {
		return err
	}
	if err := e.driver.SetPulseWidth(e.pins[servo], width); err != nil {
		return errors.Wrapf(err, "servo %d (pin %d)", servo, e.pins[servo])
	}
	return nil
}

func (e *Engine) pause() {
	if e.stepDelay > 0 {
		time.Sleep(e.stepDelay)
	}
}

// MoveSingle moves one servo to target. With smooth set, travel longer
// than MinStepDeg is split into one-degree steps with a pause between
// each; shorter travel (or smooth off) is a single direct set, so a small
// move is never silently dropped. The exact target is committed as the
// new current angle on completion, which keeps float rounding from the
// interpolation out of the stored state.
func (e *Engine) MoveSingle(servo int, target float64, smooth bool) error {
	if err := e.validate(servo, target); err != nil {
		return err
	}

	start := e.current[servo]
	delta := target - start

	if smooth && math.Abs(delta) > MinStepDeg {
		// One interpolation point per whole degree of travel.
		steps := int(math.Abs(delta))
		stepSize := delta / float64(steps)
		for i := 1; i <= steps; i++ {
			if err := e.setPulse(servo, start+float64(i)*stepSize); err != nil {
				return err
			}
			e.pause()
		}
	} else {
		if err := e.setPulse(servo, target); err != nil {
			return err
		}
	}

	e.current[servo] = target
	return nil
}

// MoveSynchronized moves every servo in targets so that all of them
// arrive at the same step. The step count is the whole-degree floor of
// the largest travel; each servo advances by its own proportional
// fraction per step, so shorter travels move more slowly per degree than
// they would individually. All pulse-width calls for step i are issued
// before the single shared pause, and before any call for step i+1.
//
// The whole plan is validated before the first hardware call: one bad
// target rejects the batch with nothing moved.
func (e *Engine) MoveSynchronized(targets map[int]float64) error {
	for servo, target := range targets {
		if err := e.validate(servo, target); err != nil {
			return err
		}
	}

	type span struct {
		servo  int
		start  float64
		target float64
		delta  float64
	}

	servos := make([]int, 0, len(targets))
	for servo := range targets {
		servos = append(servos, servo)
	}
	sort.Ints(servos)

	spans := make([]span, 0, len(servos))
	maxDelta := 0.0
	for _, servo := range servos {
		start := e.current[servo]
		delta := targets[servo] - start
		spans = append(spans, span{servo: servo, start: start, target: targets[servo], delta: delta})
		maxDelta = math.Max(maxDelta, math.Abs(delta))
	}

	steps := int(maxDelta)
	if steps <= 0 {
		// Largest travel is under one degree: set every target directly.
		for _, sp := range spans {
			if err := e.setPulse(sp.servo, sp.target); err != nil {
				return err
			}
			e.current[sp.servo] = sp.target
		}
		return nil
	}

	for i := 1; i <= steps; i++ {
		for _, sp := range spans {
			intermediate := sp.start + sp.delta*float64(i)/float64(steps)
			if err := e.setPulse(sp.servo, intermediate); err != nil {
				return err
			}
		}
		e.pause()
	}

	for _, sp := range spans {
		e.current[sp.servo] = sp.target
	}
	return nil
}

// Home drives every servo directly to MinAngle. Used once at startup so
// the stored state and the physical position agree.
func (e *Engine) Home() error {
	for servo := 1; servo <= ServoCount; servo++ {
		if err := e.MoveSingle(servo, MinAngle, false); err != nil {
			return err
		}
		e.logger.Debugf("servo %d (pin %d) initialized at %g degrees", servo, e.pins[servo], MinAngle)
	}
	return nil
}

// Park stops the servo signal on every pin. Called at shutdown.
func (e *Engine) Park() error {
	for servo := 1; servo <= ServoCount; servo++ {
		if err := e.driver.SetPulseWidth(e.pins[servo], 0); err != nil {
			return errors.Wrapf(err, "parking servo %d", servo)
		}
		e.logger.Debugf("servo %d stopped", servo)
	}
	return nil
}
