// Package main is a small UDP client for the servo control daemon.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"servoctl"
)

type Options struct {
	Addr string `short:"a" long:"addr" default:"127.0.0.1:5005" description:"daemon address"`

	Send        SendCommand        `command:"send" description:"Send one command string, e.g. '90,45, ,180'"`
	Preset      PresetCommand      `command:"preset" description:"Send a named preset position"`
	Interactive InteractiveCommand `command:"interactive" alias:"i" description:"Type commands interactively"`
	Ports       PortsCommand       `command:"ports" description:"List candidate serial ports for the serial backends"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Client for the servoctl UDP daemon. Commands are four comma-separated " +
		"angles (0-180), one per servo; a blank field keeps that servo's current angle."

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// send validates a command locally with the daemon's own parser, then
// fires it off as a single datagram.
func send(command string) error {
	if _, err := servoctl.ParseCommand(command); err != nil {
		return err
	}
	conn, err := net.Dial("udp", opts.Addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(command)); err != nil {
		return err
	}
	fmt.Printf("sent %q to %s\n", command, opts.Addr)
	return nil
}

type SendCommand struct {
	Args struct {
		Command string `positional-arg-name:"command" required:"yes"`
	} `positional-args:"yes"`
}

func (c *SendCommand) Execute(args []string) error {
	return send(c.Args.Command)
}

var presets = map[string]string{
	"home":   "0,0,0,0",
	"center": "90,90,90,90",
	"max":    "180,180,180,180",
}

type PresetCommand struct {
	Args struct {
		Name string `positional-arg-name:"name" required:"yes" description:"home, center or max"`
	} `positional-args:"yes"`
}

func (c *PresetCommand) Execute(args []string) error {
	command, ok := presets[c.Args.Name]
	if !ok {
		names := make([]string, 0, len(presets))
		for name := range presets {
			names = append(names, name)
		}
		return fmt.Errorf("unknown preset %q (have %s)", c.Args.Name, strings.Join(names, ", "))
	}
	return send(command)
}

type InteractiveCommand struct{}

func (c *InteractiveCommand) Execute(args []string) error {
	fmt.Printf("target: %s\n", opts.Addr)
	fmt.Println("format: angle1,angle2,angle3,angle4 (blank field keeps current angle)")
	fmt.Println("type 'quit' to stop")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		}
		if err := send(line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

type PortsCommand struct{}

func (c *PortsCommand) Execute(args []string) error {
	ports := servoctl.DiscoverSerialPorts()
	if len(ports) == 0 {
		fmt.Println("no candidate serial ports found")
		return nil
	}
	for _, port := range ports {
		fmt.Println(port)
	}
	return nil
}
