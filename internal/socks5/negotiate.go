package socks5

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	txsocks5 "github.com/txthinking/socks5"
)

// Version is the SOCKS protocol version this package speaks.
const Version byte = 0x05

// Re-exported wire constants, so callers don't import the library directly.
const (
	MethodNone = txsocks5.MethodNone

	CmdConnect = txsocks5.CmdConnect

	ATYPIPv4   = txsocks5.ATYPIPv4
	ATYPDomain = txsocks5.ATYPDomain
	ATYPIPv6   = txsocks5.ATYPIPv6

	RepSuccess             = txsocks5.RepSuccess
	RepConnectionRefused   = txsocks5.RepConnectionRefused
	RepHostUnreachable     = txsocks5.RepHostUnreachable
	RepCommandNotSupported = txsocks5.RepCommandNotSupported
)

// Reply codes the library doesn't need for its own client/server roles.
const (
	RepGeneralFailure          byte = 0x01
	RepNetworkUnreachable      byte = 0x03
	RepAddressTypeNotSupported byte = 0x08

	methodNoAcceptable byte = 0xff
)

var (
	// ErrProtocol means the client sent bytes that aren't a well-formed
	// SOCKS5 handshake; no reply is possible.
	ErrProtocol = errors.New("socks5: malformed handshake")

	// ErrNoAcceptableAuth means the client didn't offer the no-auth
	// method; a 0xff method reply has already been written.
	ErrNoAcceptableAuth = errors.New("socks5: no acceptable authentication method")

	// ErrCommandNotSupported means the client asked for BIND or UDP
	// ASSOCIATE; a 0x07 reply has already been written.
	ErrCommandNotSupported = errors.New("socks5: command not supported")

	// ErrAddressTypeNotSupported means the request carried an unknown
	// address type; a 0x08 reply has already been written.
	ErrAddressTypeNotSupported = errors.New("socks5: address type not supported")
)

// Request is the parsed CONNECT request. It lives only for the duration of
// one negotiation.
type Request struct {
	Cmd  byte
	Atyp byte
	Host string
	Port uint16
}

// Address returns the destination in host:port form.
func (r *Request) Address() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(int(r.Port)))
}

// Negotiate runs the server side of the SOCKS5 handshake on conn: method
// selection (no-auth only) followed by the CONNECT request. On success the
// caller owns the outbound connect attempt and the final reply; on failure a
// SOCKS5 error reply has already been written where the wire state allowed
// one (see the Err* sentinels).
func Negotiate(conn net.Conn) (*Request, error) {
	if err := selectMethod(conn); err != nil {
		return nil, err
	}
	return readRequest(conn)
}

func selectMethod(conn net.Conn) error {
	hdr := make([]byte, 2)
	if _, err := io.ReadFull(conn, hdr); err != nil {
		return fmt.Errorf("%w: greeting: %v", ErrProtocol, err)
	}
	if hdr[0] != Version {
		return fmt.Errorf("%w: greeting version %#02x", ErrProtocol, hdr[0])
	}

	methods := make([]byte, int(hdr[1]))
	if _, err := io.ReadFull(conn, methods); err != nil {
		return fmt.Errorf("%w: methods: %v", ErrProtocol, err)
	}

	if !containsMethod(methods, MethodNone) {
		_, _ = txsocks5.NewNegotiationReply(methodNoAcceptable).WriteTo(conn)
		return ErrNoAcceptableAuth
	}

	if _, err := txsocks5.NewNegotiationReply(MethodNone).WriteTo(conn); err != nil {
		return fmt.Errorf("method reply: %w", err)
	}
	return nil
}

func readRequest(conn net.Conn) (*Request, error) {
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(conn, hdr); err != nil {
		return nil, fmt.Errorf("%w: request header: %v", ErrProtocol, err)
	}
	if hdr[0] != Version || hdr[2] != 0x00 {
		return nil, fmt.Errorf("%w: request version %#02x reserved %#02x", ErrProtocol, hdr[0], hdr[2])
	}

	if hdr[1] != CmdConnect {
		WriteErrorReply(conn, RepCommandNotSupported)
		return nil, fmt.Errorf("%w: command %#02x", ErrCommandNotSupported, hdr[1])
	}

	host, err := readAddr(conn, hdr[3])
	if err != nil {
		return nil, err
	}

	portBytes := make([]byte, 2)
	if _, err := io.ReadFull(conn, portBytes); err != nil {
		return nil, fmt.Errorf("%w: port: %v", ErrProtocol, err)
	}

	return &Request{
		Cmd:  hdr[1],
		Atyp: hdr[3],
		Host: host,
		Port: binary.BigEndian.Uint16(portBytes),
	}, nil
}

func readAddr(conn net.Conn, atyp byte) (string, error) {
	switch atyp {
	case ATYPIPv4:
		b := make([]byte, net.IPv4len)
		if _, err := io.ReadFull(conn, b); err != nil {
			return "", fmt.Errorf("%w: ipv4 address: %v", ErrProtocol, err)
		}
		return net.IP(b).String(), nil
	case ATYPDomain:
		n := make([]byte, 1)
		if _, err := io.ReadFull(conn, n); err != nil {
			return "", fmt.Errorf("%w: domain length: %v", ErrProtocol, err)
		}
		b := make([]byte, int(n[0]))
		if _, err := io.ReadFull(conn, b); err != nil {
			return "", fmt.Errorf("%w: domain: %v", ErrProtocol, err)
		}
		return string(b), nil
	case ATYPIPv6:
		b := make([]byte, net.IPv6len)
		if _, err := io.ReadFull(conn, b); err != nil {
			return "", fmt.Errorf("%w: ipv6 address: %v", ErrProtocol, err)
		}
		return net.IP(b).String(), nil
	default:
		WriteErrorReply(conn, RepAddressTypeNotSupported)
		return "", fmt.Errorf("%w: atyp %#02x", ErrAddressTypeNotSupported, atyp)
	}
}

func containsMethod(methods []byte, want byte) bool {
	for _, m := range methods {
		if m == want {
			return true
		}
	}
	return false
}
