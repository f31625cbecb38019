// Package main runs the UDP servo control daemon.
package main

import (
	"context"

	"go.viam.com/rdk/logging"
	"go.viam.com/utils"

	"servoctl"
)

var logger = logging.NewDebugLogger("servoctl")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,usage=path to JSON config file"`
	ListenAddr string `flag:"listen,usage=UDP listen address (overrides config)"`
	Backend    string `flag:"backend,usage=hardware backend: pigpio, maestro, feetech or mock (overrides config)"`
	PigpioAddr string `flag:"pigpio,usage=pigpiod address (overrides config)"`
	NoSmooth   bool   `flag:"no-smooth,usage=disable smooth movement"`
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg := servoctl.DefaultConfig()
	if argsParsed.ConfigFile != "" {
		var err error
		if cfg, err = servoctl.LoadConfig(argsParsed.ConfigFile); err != nil {
			return err
		}
	}
	if argsParsed.ListenAddr != "" {
		cfg.ListenAddr = argsParsed.ListenAddr
	}
	if argsParsed.Backend != "" {
		cfg.Backend = argsParsed.Backend
	}
	if argsParsed.PigpioAddr != "" {
		cfg.PigpioAddr = argsParsed.PigpioAddr
	}
	if argsParsed.NoSmooth {
		smooth := false
		cfg.Smooth = &smooth
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	driver, err := servoctl.NewDriver(cfg, logger)
	if err != nil {
		return err
	}

	server, err := servoctl.NewServer(cfg, driver, logger)
	if err != nil {
		driver.Close()
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}()

	logger.Infof("servo backend: %s, pins: %v, smoothing: %t, step delay: %s",
		cfg.Backend, cfg.Pins, cfg.Smoothing(), cfg.StepDelay())
	return server.Run(ctx)
}
