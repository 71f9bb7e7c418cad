package dialer

// Package dialer establishes the outbound leg of a proxied session.
//
// Dialers implement a small interface (DialContext) so the proxy server
// doesn't care how destinations are reached; the direct dialer resolves
// domain-name destinations through a pluggable resolver before connecting.
