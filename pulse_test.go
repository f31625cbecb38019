package servoctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPulseWidthEndpoints(t *testing.T) {
	tests := []struct {
		angle float64
		want  int
	}{
		{0, 500},
		{45, 1000},
		{90, 1500},
		{135, 2000},
		{180, 2500},
	}
	for _, tt := range tests {
		got, err := ToPulseWidth(tt.angle)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "angle %g", tt.angle)
	}
}

func TestToPulseWidthMonotonic(t *testing.T) {
	prev, err := ToPulseWidth(0)
	require.NoError(t, err)
	for angle := 0.5; angle <= 180; angle += 0.5 {
		width, err := ToPulseWidth(angle)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, width, prev, "angle %g", angle)
		prev = width
	}
}

func TestToPulseWidthTruncates(t *testing.T) {
	// 0.1 degrees maps to 501.111..us, truncated to a whole microsecond.
	got, err := ToPulseWidth(0.1)
	require.NoError(t, err)
	assert.Equal(t, 501, got)
}

func TestToPulseWidthOutOfRange(t *testing.T) {
	for _, angle := range []float64{-0.1, -90, 180.1, 360} {
		_, err := ToPulseWidth(angle)
		assert.ErrorIs(t, err, ErrAngleRange, "angle %g", angle)
	}
}
