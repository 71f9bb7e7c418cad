package dialer

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/pronoxy/pronoxy/internal/resolver"
)

type directDialer struct {
	cfg Config
}

// NewDirectDialer returns a Dialer that connects straight to the
// destination, resolving domain names through cfg.Resolver first.
func NewDirectDialer(cfg Config) Dialer {
	if cfg.Resolver == nil {
		cfg.Resolver = resolver.System{}
	}
	return &directDialer{cfg: cfg}
}

func (d *directDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("dial %s %s: %w", network, address, err)
	}

	if _, perr := netip.ParseAddr(host); perr != nil {
		ip, err := d.cfg.Resolver.LookupHost(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("dial %s %s: %w", network, address, err)
		}
		address = net.JoinHostPort(ip.String(), port)
	}

	dd := net.Dialer{Timeout: d.cfg.DialTimeout}

	conn, err := dd.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("dial %s %s: %w", network, address, err)
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetKeepAliveConfig(d.cfg.KeepAlive)
	}

	return conn, nil
}
