package servoctl

import (
	"strings"

	"go.bug.st/serial/enumerator"
)

// DiscoverSerialPorts lists serial ports that look like USB servo
// controller attachments, for the maestro and feetech backends.
func DiscoverSerialPorts() []string {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil
	}
	var names []string
	for _, port := range ports {
		names = append(names, port.Name)
	}
	return filterCandidatePorts(names)
}

func filterCandidatePorts(ports []string) []string {
	candidates := []string{}
	for _, port := range ports {
		if isCandidatePort(port) {
			candidates = append(candidates, port)
		}
	}
	return candidates
}

func isCandidatePort(port string) bool {
	// Linux: /dev/ttyUSB*, /dev/ttyACM*
	if strings.HasPrefix(port, "/dev/ttyUSB") || strings.HasPrefix(port, "/dev/ttyACM") {
		return true
	}
	// macOS: /dev/tty.usb*, /dev/cu.usb*
	if strings.HasPrefix(port, "/dev/tty.usb") || strings.HasPrefix(port, "/dev/cu.usb") {
		return true
	}
	// Windows: COM*
	return strings.HasPrefix(port, "COM")
}
