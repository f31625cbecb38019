// Package servoctl drives up to four hobby servos from angle commands
// received over UDP, with smooth per-servo movement and synchronized
// multi-servo moves.
//
// A command is one datagram of four comma-separated fields, one per
// servo in order 1-4. Each field is either an angle in degrees (0-180)
// or blank to keep that servo where it is:
//
//	90,45, ,180
//
// moves servo 1 to 90, servo 2 to 45, leaves servo 3 alone and moves
// servo 4 to 180. Multi-servo moves are interpolated so every servo
// reaches its target at the same instant.
//
// Hardware is reached through a pluggable PulseDriver backend: the
// pigpiod socket daemon (default), a Pololu Maestro over serial, a
// Feetech STS servo bus, or a recording mock for tests.
//
// The module is organized as a flat root package plus two commands:
//
//   - cmd/server: the UDP daemon
//   - cmd/cli: a command-line sender with presets and an interactive mode
package servoctl
