package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

const serialBaudRate = 115200

// NewSerial returns a Radio on a USB/UART serial port such as /dev/ttyUSB0 or COM3.
func NewSerial(port string, timeout time.Duration) Radio {
	return newStreamRadio("serial", port, serialDialer(port), timeout)
}

func serialDialer(port string) dialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := serial.Open(port, &serial.Mode{BaudRate: serialBaudRate})
		if err != nil {
			return nil, describeSerialError(err)
		}
		return p, nil
	}
}

func describeSerialError(err error) error {
	var perr *serial.PortError
	if !errors.As(err, &perr) {
		return err
	}
	switch perr.Code() {
	case serial.PortNotFound:
		return fmt.Errorf("device not found: %w", err)
	case serial.PortBusy:
		return fmt.Errorf("device busy: %w", err)
	case serial.PermissionDenied:
		return fmt.Errorf("permission denied: %w", err)
	default:
		return err
	}
}
