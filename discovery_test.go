package servoctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCandidatePort(t *testing.T) {
	tests := []struct {
		port string
		want bool
	}{
		{"/dev/ttyUSB0", true},
		{"/dev/ttyACM1", true},
		{"/dev/tty.usbmodem14101", true},
		{"/dev/cu.usbserial-1420", true},
		{"COM3", true},
		{"/dev/ttyS0", false},
		{"/dev/tty.Bluetooth-Incoming-Port", false},
		{"/dev/cu.debug-console", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			assert.Equal(t, tt.want, isCandidatePort(tt.port))
		})
	}
}

func TestFilterCandidatePorts(t *testing.T) {
	got := filterCandidatePorts([]string{
		"/dev/ttyS0",
		"/dev/ttyACM0",
		"/dev/tty.Bluetooth-Incoming-Port",
		"COM7",
	})
	assert.Equal(t, []string{"/dev/ttyACM0", "COM7"}, got)

	assert.Empty(t, filterCandidatePorts(nil))
	assert.Empty(t, filterCandidatePorts([]string{"/dev/ttyS1"}))
}
