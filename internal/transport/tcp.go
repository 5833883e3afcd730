package transport

import (
	"context"
	"io"
	"net"
	"time"
)

// DefaultTCPPort is the Meshtastic firmware's stream API port.
const DefaultTCPPort = "4403"

// NewTCP returns a Radio on a network-attached device. host may omit the port.
func NewTCP(host string, timeout time.Duration) Radio {
	addr := tcpAddress(host)
	return newStreamRadio("tcp", addr, tcpDialer(addr), timeout)
}

func tcpDialer(addr string) dialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		var d net.Dialer
		return d.DialContext(ctx, "tcp", addr)
	}
}

func tcpAddress(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, DefaultTCPPort)
}
