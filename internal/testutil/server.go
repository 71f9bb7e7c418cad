package testutil

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
)

// StartDestinationServer starts a loopback TCP server for a single
// connection: it reads wantLines lines from the connection, then writes
// sends and closes. The returned wait func blocks until the handler is done
// and reports what was received.
func StartDestinationServer(t *testing.T, ctx context.Context, wantLines int, sends []string) (net.Listener, func() []string) {
	t.Helper()

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	var received []string
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()

		br := bufio.NewReader(c)
		for range wantLines {
			line, err := br.ReadString('\n')
			if line != "" {
				received = append(received, line)
			}
			if err != nil {
				return
			}
		}
		for _, s := range sends {
			if _, err := c.Write([]byte(s)); err != nil {
				return
			}
		}
	}()

	wait := func() []string {
		_ = ln.Close()
		wg.Wait()
		return received
	}

	return ln, wait
}
