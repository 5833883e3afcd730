package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"launch_notifier"
	"launch_notifier/internal/models"

	"github.com/google/uuid"
)

const (
	defaultIOTimeout = 5 * time.Second
	defaultWakeDelay = 100 * time.Millisecond
)

type dialFunc func(ctx context.Context) (io.ReadWriteCloser, error)

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// streamRadio speaks the Meshtastic stream protocol over any byte stream.
type streamRadio struct {
	name      string // "serial" or "tcp", reported in the Ack
	target    string // port or host, for error messages
	dial      dialFunc
	timeout   time.Duration
	wakeDelay time.Duration
	newID     func() uint32

	conn io.ReadWriteCloser
}

func newStreamRadio(name, target string, dial dialFunc, timeout time.Duration) *streamRadio {
	if timeout <= 0 {
		timeout = defaultIOTimeout
	}
	return &streamRadio{
		name:      name,
		target:    target,
		dial:      dial,
		timeout:   timeout,
		wakeDelay: defaultWakeDelay,
		newID:     newPacketID,
	}
}

// Open dials the device and sends the wake sequence.
func (r *streamRadio) Open(ctx context.Context) error {
	if r.conn != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	conn, err := r.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: open %s %s: %w", launch_notifier.ErrConnection, r.name, r.target, err)
	}
	r.conn = conn

	if err := r.write(ctx, wakeSequence()); err != nil {
		_ = r.release()
		return fmt.Errorf("%w: wake %s %s: %w", launch_notifier.ErrConnection, r.name, r.target, err)
	}
	if r.wakeDelay > 0 {
		select {
		case <-time.After(r.wakeDelay):
		case <-ctx.Done():
			_ = r.release()
			return fmt.Errorf("%w: wake %s %s: %w", launch_notifier.ErrConnection, r.name, r.target, ctx.Err())
		}
	}
	return nil
}

// SendText frames one broadcast text packet and writes it in a single call.
func (r *streamRadio) SendText(ctx context.Context, text string, channel int) (models.Ack, error) {
	if r.conn == nil {
		return models.Ack{}, fmt.Errorf("%w: %s link is not open", launch_notifier.ErrTransmit, r.name)
	}
	if err := checkPayload(text, channel); err != nil {
		return models.Ack{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Ack{}, fmt.Errorf("%w: %w", launch_notifier.ErrTransmit, err)
	}

	id := r.newID()
	buf, err := frame(encodeToRadio(textPacket{
		ID:       id,
		Channel:  uint32(channel),
		HopLimit: defaultHopLimit,
		Text:     []byte(text),
	}))
	if err != nil {
		return models.Ack{}, fmt.Errorf("%w: %w", launch_notifier.ErrTransmit, err)
	}
	if err := r.write(ctx, buf); err != nil {
		return models.Ack{}, fmt.Errorf("%w: write to %s %s: %w", launch_notifier.ErrTransmit, r.name, r.target, err)
	}

	return models.Ack{PacketID: id, Channel: channel, Bytes: len(text), Transport: r.name}, nil
}

// Close tells the device we are leaving, then releases the link.
func (r *streamRadio) Close() error {
	if r.conn == nil {
		return nil
	}
	if buf, err := frame(encodeDisconnect()); err == nil {
		_ = r.write(context.Background(), buf)
	}
	return r.release()
}

func (r *streamRadio) release() error {
	conn := r.conn
	r.conn = nil
	if conn == nil {
		return nil
	}
	if err := conn.Close(); err != nil {
		return fmt.Errorf("close %s %s: %w", r.name, r.target, err)
	}
	return nil
}

// write puts b on the link within r.timeout. Links without write deadlines (serial ports)
// are written from a goroutine; on timeout or cancellation the link is released,
// which unblocks the pending write.
func (r *streamRadio) write(ctx context.Context, b []byte) error {
	conn := r.conn
	if conn == nil {
		return errors.New("link is not open")
	}
	if d, ok := conn.(writeDeadliner); ok {
		if err := d.SetWriteDeadline(time.Now().Add(r.timeout)); err != nil {
			return err
		}
		return writeFull(conn, b)
	}

	done := make(chan error, 1)
	go func() { done <- writeFull(conn, b) }()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		_ = r.release()
		return fmt.Errorf("write timed out after %s", r.timeout)
	case <-ctx.Done():
		_ = r.release()
		return ctx.Err()
	}
}

func writeFull(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return errors.New("short write")
	}
	return nil
}

func newPacketID() uint32 {
	if id := uuid.New().ID(); id != 0 {
		return id
	}
	return 1
}
