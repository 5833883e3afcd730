package models

import (
	"fmt"
	"strings"
	"time"

	"launch_notifier"
)

// Transport modes.
const (
	ModeSerial  = "serial"
	ModeNetwork = "network"
)

// MaxChannelIndex is the highest logical channel a Meshtastic device exposes.
const MaxChannelIndex = 7

// TransportConfig selects how the radio is reached and on which channel the text goes out.
type TransportConfig struct {
	Mode         string        `json:"mode"` // serial | network
	SerialPort   string        `json:"serial_port,omitempty"`
	NetworkHost  string        `json:"network_host,omitempty"`
	ChannelIndex int           `json:"channel_index"`
	Timeout      time.Duration `json:"timeout,omitempty"`
	DryRun       bool          `json:"dry_run,omitempty"` // print instead of transmitting
}

// Validate rejects combinations that can never work at runtime.
// A dry run never opens the device, so it does not need a port or host.
func (c TransportConfig) Validate() error {
	switch c.Mode {
	case ModeSerial:
		if !c.DryRun && strings.TrimSpace(c.SerialPort) == "" {
			return fmt.Errorf("%w: serial mode requires a serial port", launch_notifier.ErrConfig)
		}
	case ModeNetwork:
		if !c.DryRun && strings.TrimSpace(c.NetworkHost) == "" {
			return fmt.Errorf("%w: network mode requires a host", launch_notifier.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown transport mode %q", launch_notifier.ErrConfig, c.Mode)
	}
	if c.ChannelIndex < 0 || c.ChannelIndex > MaxChannelIndex {
		return fmt.Errorf("%w: channel index %d out of range [0,%d]", launch_notifier.ErrConfig, c.ChannelIndex, MaxChannelIndex)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative device timeout %s", launch_notifier.ErrConfig, c.Timeout)
	}
	return nil
}

// Ack confirms a message was handed to the radio.
type Ack struct {
	PacketID  uint32 `json:"packet_id"`
	Channel   int    `json:"channel"`
	Bytes     int    `json:"bytes"`
	Transport string `json:"transport"`
}
