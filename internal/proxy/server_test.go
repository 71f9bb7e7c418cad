package proxy

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	txsocks5 "github.com/txthinking/socks5"

	"github.com/pronoxy/pronoxy/internal/dialer"
	"github.com/pronoxy/pronoxy/internal/rewrite"
	"github.com/pronoxy/pronoxy/internal/socks5"
	"github.com/pronoxy/pronoxy/internal/testutil"
)

func startServer(t *testing.T, ctx context.Context, cfg Config) net.Listener {
	t.Helper()

	if cfg.Dialer == nil {
		cfg.Dialer = dialer.NewDirectDialer(dialer.Config{DialTimeout: 2 * time.Second})
	}

	ln, err := ListenTCP(ctx, "tcp", "127.0.0.1:0", net.KeepAliveConfig{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	srv := NewServer(ctx, cfg, false)
	go func() { _ = srv.Serve(ln) }()

	return ln
}

func TestServerRewritesServerToClient(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	destLn, wait := testutil.StartDestinationServer(t, ctx, 1, []string{"He said his hello.\r\n"})

	ln := startServer(t, ctx, Config{Transform: rewrite.Default().Swap})

	client, err := txsocks5.NewClient(ln.Addr().String(), "", "", 2, 0)
	if err != nil {
		t.Fatal(err)
	}

	c, err := client.Dial("tcp", destLn.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Client-to-server stays verbatim even though it contains pronouns.
	if _, err := c.Write([]byte("he sent her ping\n")); err != nil {
		t.Fatal(err)
	}

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if want := "She said hers hello.\r\n"; line != want {
		t.Errorf("client received %q, want %q", line, want)
	}

	received := wait()
	if len(received) != 1 || received[0] != "he sent her ping\n" {
		t.Errorf("destination received %q, want the line unmodified", received)
	}
}

func TestServerConnectRefused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Grab a port that nothing listens on.
	closedLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	closedAddr := closedLn.Addr().String()
	_ = closedLn.Close()

	ln := startServer(t, ctx, Config{})

	client, err := txsocks5.NewClient(ln.Addr().String(), "", "", 2, 0)
	if err != nil {
		t.Fatal(err)
	}

	if c, err := client.Dial("tcp", closedAddr); err == nil {
		_ = c.Close()
		t.Fatal("expected dial through proxy to fail")
	}
}

func TestServerConnectRefusedWire(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	closedLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	closedPort := closedLn.Addr().(*net.TCPAddr).Port
	_ = closedLn.Close()

	ln := startServer(t, ctx, Config{})

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Write([]byte{0x05, 0x01, 0x00}); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2)
	if _, err := io.ReadFull(c, buf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x05 || buf[1] != 0x00 {
		t.Fatalf("method reply = % 02x, want 05 00", buf)
	}

	req := []byte{0x05, 0x01, 0x00, 0x01, 0x7f, 0x00, 0x00, 0x01,
		byte(closedPort >> 8), byte(closedPort)}
	if _, err := c.Write(req); err != nil {
		t.Fatal(err)
	}

	reply := make([]byte, 10)
	if _, err := io.ReadFull(c, reply); err != nil {
		t.Fatal(err)
	}
	if reply[0] != 0x05 || reply[1] != socks5.RepConnectionRefused {
		t.Errorf("reply = % 02x, want version 05 rep 05", reply[:2])
	}

	if _, err := c.Read(make([]byte, 1)); err != io.EOF {
		t.Errorf("read after reply err = %v, want io.EOF", err)
	}
}

func TestServerCommandNotSupportedWire(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ln := startServer(t, ctx, Config{})

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Write([]byte{0x05, 0x01, 0x00}); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2)
	if _, err := io.ReadFull(c, buf); err != nil {
		t.Fatal(err)
	}

	// BIND request; the address bytes go unread but TCP buffers them.
	bind := []byte{0x05, 0x02, 0x00, 0x01, 0x7f, 0x00, 0x00, 0x01, 0x00, 0x50}
	if _, err := c.Write(bind); err != nil {
		t.Fatal(err)
	}

	reply := make([]byte, 10)
	if _, err := io.ReadFull(c, reply); err != nil {
		t.Fatal(err)
	}
	if reply[0] != 0x05 || reply[1] != socks5.RepCommandNotSupported {
		t.Errorf("reply = % 02x, want version 05 rep 07", reply[:2])
	}

	if _, err := c.Read(make([]byte, 1)); err != io.EOF {
		t.Errorf("read after reply err = %v, want io.EOF", err)
	}
}

func TestServerNegotiationTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ln := startServer(t, ctx, Config{NegotiationTimeout: 100 * time.Millisecond})

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Send nothing; the server must give up and close.
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected connection to be closed")
	}
}

func TestServerRewriteBoth(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	destLn, wait := testutil.StartDestinationServer(t, ctx, 1, nil)

	ln := startServer(t, ctx, Config{Transform: rewrite.Default().Swap, RewriteBoth: true})

	client, err := txsocks5.NewClient(ln.Addr().String(), "", "", 2, 0)
	if err != nil {
		t.Fatal(err)
	}

	c, err := client.Dial("tcp", destLn.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Write([]byte("he waved\n")); err != nil {
		t.Fatal(err)
	}

	received := wait()
	if len(received) != 1 || received[0] != "she waved\n" {
		t.Errorf("destination received %q, want [\"she waved\\n\"]", received)
	}
}
