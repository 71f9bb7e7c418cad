package proxy

import (
	"net"
	"time"

	"github.com/pronoxy/pronoxy/internal/dialer"
	"github.com/pronoxy/pronoxy/internal/relay"
)

type Config struct {
	// NegotiationTimeout bounds the SOCKS5 handshake including the
	// outbound connect; cleared before the relay starts, which runs with
	// no deadline.
	NegotiationTimeout time.Duration

	KeepAlive net.KeepAliveConfig

	Dialer dialer.Dialer

	// Transform rewrites relayed line content; nil relays verbatim.
	Transform relay.Transform

	// RewriteBoth applies Transform client-to-server as well.
	RewriteBoth bool

	// MaxLineBytes bounds relay line buffering; 0 means unbounded.
	MaxLineBytes int
}
