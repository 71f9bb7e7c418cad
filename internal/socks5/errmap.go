package socks5

import (
	"errors"
	"net"
)

func replyForGenericDialError(err error) byte {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return RepHostUnreachable
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return RepHostUnreachable
	}

	return RepGeneralFailure
}
