package socks5

import (
	"fmt"
	"net"

	txsocks5 "github.com/txthinking/socks5"
)

// WriteErrorReply writes a SOCKS5 error reply with a zeroed IPv4 bound
// address. Write failures are ignored; the connection is being torn down
// anyway.
func WriteErrorReply(conn net.Conn, rep byte) {
	_, _ = newZeroAddrReply(rep).WriteTo(conn)
}

// WriteSuccessReply writes a SOCKS5 success reply reporting bindAddr, the
// local address of the outbound socket. If bindAddr can't be expressed as a
// SOCKS5 address the reply falls back to 0.0.0.0:0, which CONNECT clients
// don't validate.
func WriteSuccessReply(conn net.Conn, bindAddr net.Addr) error {
	reply := newZeroAddrReply(RepSuccess)

	if bindAddr != nil {
		a, addr, port, err := txsocks5.ParseAddress(bindAddr.String())
		if err == nil && a != ATYPDomain {
			reply = txsocks5.NewReply(RepSuccess, a, addr, port)
		}
	}

	if _, err := reply.WriteTo(conn); err != nil {
		return fmt.Errorf("success reply: %w", err)
	}
	return nil
}

func newZeroAddrReply(rep byte) *txsocks5.Reply {
	return txsocks5.NewReply(rep, ATYPIPv4, []byte{0x00, 0x00, 0x00, 0x00}, []byte{0x00, 0x00})
}
