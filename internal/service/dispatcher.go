package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"launch_notifier"
	"launch_notifier/internal/logger"
	"launch_notifier/internal/models"
	"launch_notifier/internal/transport"
)

// RadioFactory builds the Radio for one send.
type RadioFactory func(cfg models.TransportConfig) (transport.Radio, error)

// TransportDispatcher owns the open/send/close lifecycle of a radio for one message.
type TransportDispatcher struct {
	newRadio RadioFactory
	log      *logger.Logger
}

func NewTransportDispatcher(factory RadioFactory, log *logger.Logger) *TransportDispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &TransportDispatcher{newRadio: factory, log: log}
}

// DefaultRadioFactory builds serial, TCP or dry-run radios; dry-run output goes to out.
func DefaultRadioFactory(out io.Writer) RadioFactory {
	return func(cfg models.TransportConfig) (transport.Radio, error) {
		return transport.New(cfg, out)
	}
}

// Send opens the radio, transmits msg on cfg.ChannelIndex and always closes the radio.
// Every failure wraps launch_notifier.ErrTransport.
func (d *TransportDispatcher) Send(ctx context.Context, msg string, cfg models.TransportConfig) (models.Ack, error) {
	radio, err := d.newRadio(cfg)
	if err != nil {
		return models.Ack{}, asTransportError(fmt.Errorf("build radio: %w", err))
	}
	defer func() {
		if cerr := radio.Close(); cerr != nil {
			d.log.Warnw("radio close failed", "mode", cfg.Mode, "err", cerr)
		}
	}()

	d.log.Debugw("opening radio", "mode", cfg.Mode, "serial_port", cfg.SerialPort, "host", cfg.NetworkHost, "dry_run", cfg.DryRun)
	if err := radio.Open(ctx); err != nil {
		return models.Ack{}, asTransportError(err)
	}

	d.log.Infow("sending message", "channel", cfg.ChannelIndex, "bytes", len(msg))
	ack, err := radio.SendText(ctx, msg, cfg.ChannelIndex)
	if err != nil {
		return models.Ack{}, asTransportError(err)
	}
	return ack, nil
}

func asTransportError(err error) error {
	if errors.Is(err, launch_notifier.ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", launch_notifier.ErrTransport, err)
}
