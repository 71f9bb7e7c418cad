//go:build unix

package socks5

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ReplyForDialError maps an outbound connect failure to the closest SOCKS5
// reply code, so the client is never left waiting on an unreachable
// destination.
func ReplyForDialError(err error) byte {
	switch {
	case errors.Is(err, unix.ECONNREFUSED):
		return RepConnectionRefused
	case errors.Is(err, unix.EHOSTUNREACH), errors.Is(err, unix.EHOSTDOWN), errors.Is(err, unix.ETIMEDOUT):
		return RepHostUnreachable
	case errors.Is(err, unix.ENETUNREACH), errors.Is(err, unix.ENETDOWN):
		return RepNetworkUnreachable
	}
	return replyForGenericDialError(err)
}
