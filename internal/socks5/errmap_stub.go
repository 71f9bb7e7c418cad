//go:build !unix

package socks5

// ReplyForDialError maps an outbound connect failure to the closest SOCKS5
// reply code. Without errno inspection only timeouts and resolution failures
// can be classified.
func ReplyForDialError(err error) byte {
	return replyForGenericDialError(err)
}
