package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"launch_notifier"
	"launch_notifier/internal/models"
)

// consoleRadio prints the message it would have sent.
type consoleRadio struct {
	out io.Writer
}

// NewConsole returns the dry-run Radio. A nil out writes to stdout.
func NewConsole(out io.Writer) Radio {
	if out == nil {
		out = os.Stdout
	}
	return &consoleRadio{out: out}
}

func (c *consoleRadio) Open(ctx context.Context) error { return nil }

func (c *consoleRadio) SendText(ctx context.Context, text string, channel int) (models.Ack, error) {
	if err := checkPayload(text, channel); err != nil {
		return models.Ack{}, err
	}
	rule := strings.Repeat("=", 50)
	thin := strings.Repeat("-", 50)
	_, err := fmt.Fprintf(c.out, "\n%s\nDRY RUN - message NOT sent to Meshtastic\n%s\nChannel: %d\nMessage length: %d bytes\n\nMessage content:\n%s\n%s\n%s\n",
		rule, rule, channel, len(text), thin, text, thin)
	if err != nil {
		return models.Ack{}, fmt.Errorf("%w: write preview: %w", launch_notifier.ErrTransmit, err)
	}
	return models.Ack{Channel: channel, Bytes: len(text), Transport: "dry-run"}, nil
}

func (c *consoleRadio) Close() error { return nil }
