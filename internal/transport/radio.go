// Package transport talks to a Meshtastic radio over its stream API.
//
// Serial and TCP links carry the same framing, so both are a streamRadio with a
// different dialer. The console radio prints instead of transmitting (dry run).
package transport

import (
	"context"
	"fmt"
	"io"

	"launch_notifier"
	"launch_notifier/internal/models"
)

// Radio is a connection to one mesh device. A Radio is opened, used once and closed.
type Radio interface {
	// Open establishes the link. Failures wrap launch_notifier.ErrConnection.
	Open(ctx context.Context) error
	// SendText broadcasts text on the logical channel. Failures wrap launch_notifier.ErrTransmit.
	SendText(ctx context.Context, text string, channel int) (models.Ack, error)
	// Close releases the link. Safe to call on an unopened or closed Radio.
	Close() error
}

// New builds the Radio selected by cfg. Dry-run output goes to out.
func New(cfg models.TransportConfig, out io.Writer) (Radio, error) {
	if cfg.DryRun {
		return NewConsole(out), nil
	}
	switch cfg.Mode {
	case models.ModeSerial:
		return NewSerial(cfg.SerialPort, cfg.Timeout), nil
	case models.ModeNetwork:
		return NewTCP(cfg.NetworkHost, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport mode %q", launch_notifier.ErrConfig, cfg.Mode)
	}
}

// checkPayload applies the device limits before anything is written.
func checkPayload(text string, channel int) error {
	if channel < 0 || channel > models.MaxChannelIndex {
		return fmt.Errorf("%w: channel %d out of range [0,%d]", launch_notifier.ErrTransmit, channel, models.MaxChannelIndex)
	}
	if text == "" {
		return fmt.Errorf("%w: empty payload", launch_notifier.ErrTransmit)
	}
	if len(text) > MaxPayloadBytes {
		return fmt.Errorf("%w: payload is %d bytes, device limit is %d", launch_notifier.ErrTransmit, len(text), MaxPayloadBytes)
	}
	return nil
}
