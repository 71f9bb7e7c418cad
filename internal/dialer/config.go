package dialer

import (
	"net"
	"time"

	"github.com/pronoxy/pronoxy/internal/resolver"
)

type Config struct {
	DialTimeout time.Duration
	KeepAlive   net.KeepAliveConfig

	// Resolver handles domain-name destinations. nil means the system
	// resolver.
	Resolver resolver.Resolver
}
