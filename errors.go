package launch_notifier

import (
	"errors"
	"fmt"
)

// Error kinds shared by every stage. Stages wrap the cause with the kind,
// e.g. fmt.Errorf("%w: decode body: %w", ErrData, err), so callers can match both.
var (
	ErrConfig  = errors.New("config error")
	ErrNetwork = errors.New("network error")
	ErrData    = errors.New("data error")
	ErrFormat  = errors.New("format error")

	ErrTransport  = errors.New("transport error")
	ErrConnection = fmt.Errorf("%w: connection failed", ErrTransport)
	ErrTransmit   = fmt.Errorf("%w: transmit failed", ErrTransport)
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// ExitCode maps a pipeline error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitFailure
	}
}
