package servoctl

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

const maxDatagramSize = 1024

// Server receives command datagrams and drives the motion engine. One
// datagram is one command; commands are processed strictly in arrival
// order, and a command is not read until the previous one has fully
// completed — an in-progress smooth move blocks the loop by design.
type Server struct {
	cfg        *Config
	engine     *Engine
	dispatcher *Dispatcher
	driver     PulseDriver
	logger     logging.Logger

	mu   sync.Mutex
	conn *net.UDPConn
}

// NewServer wires an engine and dispatcher over the given driver and
// homes every servo to its starting angle.
func NewServer(cfg *Config, driver PulseDriver, logger logging.Logger) (*Server, error) {
	engine, err := NewEngine(driver, cfg.Pins, cfg.StepDelay(), logger)
	if err != nil {
		return nil, err
	}
	if err := engine.Home(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize servos")
	}
	return &Server{
		cfg:        cfg,
		engine:     engine,
		dispatcher: NewDispatcher(engine, cfg.Smoothing(), logger),
		driver:     driver,
		logger:     logger,
	}, nil
}

// Engine exposes the motion engine, mainly for tests and status dumps.
func (s *Server) Engine() *Engine {
	return s.engine
}

// Addr returns the bound UDP address once Run is listening, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Run listens for command datagrams until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", s.cfg.ListenAddr)
	if err != nil {
		return errors.Wrapf(err, "invalid listen address %q", s.cfg.ListenAddr)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.cfg.ListenAddr)
	}
	defer conn.Close()
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	// Unblock the read loop when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	s.logger.Infof("listening for servo commands on %s", conn.LocalAddr())
	s.logger.Infof("command format: angle1,angle2,angle3,angle4 (blank field keeps current angle, valid angles %g-%g)",
		MinAngle, MaxAngle)

	buf := make([]byte, maxDatagramSize)
	for {
		n, sender, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "read datagram")
		}
		s.handle(string(buf[:n]), sender)
	}
}

// handle processes one datagram end to end. A malformed message is
// logged and dropped; engine state is untouched and the loop keeps
// listening.
func (s *Server) handle(message string, sender *net.UDPAddr) {
	s.logger.Infof("received %q from %s", message, sender)

	intents, err := ParseCommand(message)
	if err != nil {
		s.logger.Warnf("rejected command from %s: %v", sender, err)
		return
	}

	for _, outcome := range s.dispatcher.Dispatch(intents) {
		switch {
		case outcome.Err != nil:
			s.logger.Warnf("servo %d failed: %v", outcome.Servo, outcome.Err)
		case outcome.Moved:
			s.logger.Infof("servo %d moved to %g degrees", outcome.Servo, outcome.Angle)
		default:
			s.logger.Infof("servo %d kept at %g degrees", outcome.Servo, outcome.Angle)
		}
	}
}

// Close parks every servo and closes the hardware driver.
func (s *Server) Close() error {
	if err := s.engine.Park(); err != nil {
		s.logger.Warnf("failed to park servos: %v", err)
	}
	return s.driver.Close()
}
