// Package resolver provides the name lookup collaborator used when a SOCKS5
// client sends a domain-name destination. Lookups either go through the
// system resolver or straight to a configured DNS server.
package resolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

// Resolver turns a host name into one address to dial.
type Resolver interface {
	LookupHost(ctx context.Context, host string) (netip.Addr, error)
}

// System resolves through net.DefaultResolver.
type System struct{}

func (System) LookupHost(ctx context.Context, host string) (netip.Addr, error) {
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("resolve %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return netip.Addr{}, fmt.Errorf("resolve %s: no addresses", host)
	}
	return addrs[0].Unmap(), nil
}

// Server resolves by querying one DNS server directly, A records first and
// AAAA as a fallback.
type Server struct {
	addr    string
	timeout time.Duration
}

// NewServer returns a Resolver that queries the DNS server at addr
// (host:port) with the given per-exchange timeout.
func NewServer(addr string, timeout time.Duration) *Server {
	return &Server{addr: addr, timeout: timeout}
}

func (s *Server) LookupHost(ctx context.Context, host string) (netip.Addr, error) {
	c := &dns.Client{Timeout: s.timeout}

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := &dns.Msg{}
		m.SetQuestion(dns.Fqdn(host), qtype)
		m.RecursionDesired = true

		r, _, err := c.ExchangeContext(ctx, m, s.addr)
		if err != nil {
			return netip.Addr{}, fmt.Errorf("resolve %s via %s: %w", host, s.addr, err)
		}

		for _, rr := range r.Answer {
			switch a := rr.(type) {
			case *dns.A:
				if ip, ok := netip.AddrFromSlice(a.A.To4()); ok {
					return ip, nil
				}
			case *dns.AAAA:
				if ip, ok := netip.AddrFromSlice(a.AAAA.To16()); ok {
					return ip, nil
				}
			}
		}
	}

	return netip.Addr{}, fmt.Errorf("resolve %s via %s: no address records", host, s.addr)
}
