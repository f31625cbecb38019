package servoctl

import (
	"go.viam.com/rdk/logging"
)

// Outcome is the per-servo result of one dispatched message, used purely
// for reporting.
type Outcome struct {
	Servo int
	Angle float64 // final commanded angle, or the kept angle
	Moved bool
	Err   error
}

// Dispatcher turns a list of parsed intents into motion engine calls.
// With smoothing enabled and more than one servo moving, the whole plan
// goes through one synchronized move; otherwise each mover is driven
// individually. Failed servos are reported but never retried, and one
// failure does not abort the remaining individual movers.
type Dispatcher struct {
	engine *Engine
	smooth bool
	logger logging.Logger
}

// NewDispatcher creates a dispatcher over an engine. smooth selects the
// interpolating move paths; with it off every move is a direct set.
func NewDispatcher(engine *Engine, smooth bool, logger logging.Logger) *Dispatcher {
	return &Dispatcher{engine: engine, smooth: smooth, logger: logger}
}

// Dispatch executes the intents of one message and returns one outcome
// per intent, in intent order.
func (d *Dispatcher) Dispatch(intents []Intent) []Outcome {
	plan := make(map[int]float64, len(intents))
	for _, intent := range intents {
		if !intent.Keep {
			plan[intent.Servo] = intent.Angle
		}
	}

	var batchErr error
	individual := len(plan) <= 1 || !d.smooth
	if !individual {
		// Two or more movers: one synchronized move for the whole plan,
		// all-or-nothing.
		batchErr = d.engine.MoveSynchronized(plan)
	}

	outcomes := make([]Outcome, 0, len(intents))
	for _, intent := range intents {
		if intent.Keep {
			angle, err := d.engine.Angle(intent.Servo)
			outcomes = append(outcomes, Outcome{Servo: intent.Servo, Angle: angle, Err: err})
			continue
		}
		if individual {
			err := d.engine.MoveSingle(intent.Servo, intent.Angle, d.smooth)
			outcomes = append(outcomes, Outcome{Servo: intent.Servo, Angle: intent.Angle, Moved: err == nil, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Servo: intent.Servo, Angle: intent.Angle, Moved: batchErr == nil, Err: batchErr})
	}
	return outcomes
}
