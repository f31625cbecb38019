package servoctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.viam.com/rdk/logging"
)

func testDispatcher(t *testing.T, smooth bool) (*Dispatcher, *Engine, *MockDriver) {
	t.Helper()
	engine, driver := testEngine(t)
	return NewDispatcher(engine, smooth, logging.NewTestLogger(t)), engine, driver
}

func TestDispatchKeepOnly(t *testing.T) {
	dispatcher, engine, driver := testDispatcher(t, true)
	require.NoError(t, engine.MoveSingle(2, 45, false))
	driver.Calls = nil

	intents, err := ParseCommand(" , , , ")
	require.NoError(t, err)

	outcomes := dispatcher.Dispatch(intents)
	require.Len(t, outcomes, 4)
	for _, outcome := range outcomes {
		assert.False(t, outcome.Moved)
		assert.NoError(t, outcome.Err)
	}
	assert.Equal(t, 45.0, outcomes[1].Angle, "kept outcome reports the current angle")
	assert.Empty(t, driver.Calls, "keeps are no-ops")
}

func TestDispatchSingleMoverUsesIndividualPath(t *testing.T) {
	dispatcher, engine, driver := testDispatcher(t, true)

	intents, err := ParseCommand("90, , , ")
	require.NoError(t, err)

	outcomes := dispatcher.Dispatch(intents)
	require.Len(t, outcomes, 4)
	assert.True(t, outcomes[0].Moved)
	assert.Equal(t, 90.0, outcomes[0].Angle)

	// Individual smooth move: 90 one-degree steps on servo 1's pin only.
	assert.Len(t, driver.Calls, 90)
	angle, err := engine.Angle(1)
	require.NoError(t, err)
	assert.Equal(t, 90.0, angle)
}

func TestDispatchMultiMoverSynchronized(t *testing.T) {
	dispatcher, engine, driver := testDispatcher(t, true)

	intents, err := ParseCommand("10,100, , ")
	require.NoError(t, err)

	outcomes := dispatcher.Dispatch(intents)
	require.Len(t, outcomes, 4)
	assert.True(t, outcomes[0].Moved)
	assert.True(t, outcomes[1].Moved)
	assert.False(t, outcomes[2].Moved)
	assert.False(t, outcomes[3].Moved)

	// Synchronized path: 100 steps (the largest delta), two calls per step.
	assert.Len(t, driver.Calls, 200)
	assert.Equal(t, map[int]float64{1: 10, 2: 100, 3: 0, 4: 0}, engine.Angles())
}

func TestDispatchSmoothingDisabledMovesIndividually(t *testing.T) {
	dispatcher, engine, driver := testDispatcher(t, false)

	intents, err := ParseCommand("90,45, ,180")
	require.NoError(t, err)

	outcomes := dispatcher.Dispatch(intents)
	require.Len(t, outcomes, 4)

	// Three direct sets, no interpolation.
	assert.Len(t, driver.Calls, 3)
	assert.Equal(t, map[int]float64{1: 90, 2: 45, 3: 0, 4: 180}, engine.Angles())
}

func TestDispatchEndToEndScenario(t *testing.T) {
	dispatcher, engine, _ := testDispatcher(t, true)

	intents, err := ParseCommand("90,45, ,180")
	require.NoError(t, err)

	outcomes := dispatcher.Dispatch(intents)
	require.Len(t, outcomes, 4)
	assert.Equal(t, 90.0, outcomes[0].Angle)
	assert.Equal(t, 45.0, outcomes[1].Angle)
	assert.Equal(t, 0.0, outcomes[2].Angle)
	assert.Equal(t, 180.0, outcomes[3].Angle)

	assert.Equal(t, map[int]float64{1: 90, 2: 45, 3: 0, 4: 180}, engine.Angles())
}

func TestDispatchIndividualFailureDoesNotAbortOthers(t *testing.T) {
	dispatcher, engine, driver := testDispatcher(t, false)

	// Hand-built intents: the parser would reject 200, but the engine
	// must also hold the line, and one bad servo must not stop the rest.
	outcomes := dispatcher.Dispatch([]Intent{
		{Servo: 1, Angle: 200},
		{Servo: 2, Angle: 50},
	})
	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, ErrAngleRange)
	assert.False(t, outcomes[0].Moved)
	assert.NoError(t, outcomes[1].Err)
	assert.True(t, outcomes[1].Moved)

	assert.Len(t, driver.Calls, 1, "only the valid servo reaches hardware")
	angle, err := engine.Angle(2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, angle)
}

func TestDispatchSynchronizedFailureIsAllOrNothing(t *testing.T) {
	dispatcher, engine, driver := testDispatcher(t, true)

	outcomes := dispatcher.Dispatch([]Intent{
		{Servo: 1, Angle: 200},
		{Servo: 2, Angle: 50},
	})
	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, ErrAngleRange)
	assert.ErrorIs(t, outcomes[1].Err, ErrAngleRange)

	assert.Empty(t, driver.Calls, "batch validation precedes any hardware call")
	assert.Equal(t, map[int]float64{1: 0, 2: 0, 3: 0, 4: 0}, engine.Angles())
}
