package dialer

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strconv"
	"testing"
	"time"

	"github.com/pronoxy/pronoxy/internal/testutil"
)

type fixedResolver struct {
	addr netip.Addr
	err  error
}

func (r fixedResolver) LookupHost(ctx context.Context, host string) (netip.Addr, error) {
	return r.addr, r.err
}

func TestDirectDialerByIP(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ln := testutil.StartLineEchoServer(t, ctx)
	defer ln.Close()

	d := NewDirectDialer(Config{DialTimeout: 2 * time.Second})

	conn, err := d.DialContext(ctx, "tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	testutil.AssertEcho(t, conn, conn, []byte("ping\n"))
}

func TestDirectDialerResolvesDomain(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ln := testutil.StartLineEchoServer(t, ctx)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port

	d := NewDirectDialer(Config{
		DialTimeout: 2 * time.Second,
		Resolver:    fixedResolver{addr: netip.MustParseAddr("127.0.0.1")},
	})

	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort("echo.test", strconv.Itoa(port)))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	testutil.AssertEcho(t, conn, conn, []byte("ping\n"))
}

func TestDirectDialerResolverFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	lookupErr := errors.New("no such host")
	d := NewDirectDialer(Config{
		DialTimeout: 2 * time.Second,
		Resolver:    fixedResolver{err: lookupErr},
	})

	if _, err := d.DialContext(ctx, "tcp", "missing.test:80"); !errors.Is(err, lookupErr) {
		t.Fatalf("err = %v, want %v", err, lookupErr)
	}
}
