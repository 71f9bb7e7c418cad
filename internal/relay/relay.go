package relay

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Transform rewrites the content of one line, terminator excluded. It must
// be pure and total; raw bytes go in, so a transform that can't make sense
// of its input is expected to return it unchanged. nil means identity.
type Transform func(line []byte) []byte

// Options controls relay behavior for one session.
type Options struct {
	// RewriteBoth applies the transform on the client-to-server direction
	// too. The default rewrites only what the server sends back.
	RewriteBoth bool

	// MaxLineBytes bounds per-line buffering; oversized runs are passed
	// through in chunks, untransformed. 0 means unbounded, matching a
	// plain readline loop.
	MaxLineBytes int
}

// Run relays lines between client and server until either side closes or
// errors, then closes both. Each direction is its own pump goroutine; both
// connections are owned by the relay from here on. Canceling ctx also
// closes both connections.
func Run(ctx context.Context, client, server net.Conn, transform Transform, opts Options) error {
	var closeOnce sync.Once
	closeBoth := func() {
		closeOnce.Do(func() {
			_ = client.Close()
			_ = server.Close()
		})
	}
	defer closeBoth()

	stop := context.AfterFunc(ctx, closeBoth)
	defer stop()

	upstream := transform
	if !opts.RewriteBoth {
		upstream = nil
	}

	g := errgroup.Group{}
	g.Go(func() error {
		defer closeBoth()
		return pump(server, client, upstream, opts.MaxLineBytes)
	})
	g.Go(func() error {
		defer closeBoth()
		return pump(client, server, transform, opts.MaxLineBytes)
	})
	return g.Wait()
}

// pump copies lines from src to dst until end-of-stream, transforming each
// complete line's content. Chunks emitted by the buffer bound bypass the
// transform; rewriting a token that was split mid-line would corrupt it.
func pump(dst io.Writer, src io.Reader, transform Transform, maxLineBytes int) error {
	sc := NewScanner(src, maxLineBytes)
	for {
		line, chunked, err := sc.ReadLine()
		if err != nil {
			if isClosedStream(err) {
				return nil
			}
			return err
		}

		out := line
		if transform != nil && !chunked {
			out = rewriteLine(line, transform)
		}
		if _, err := dst.Write(out); err != nil {
			if isClosedStream(err) {
				return nil
			}
			return err
		}
	}
}

func rewriteLine(line []byte, transform Transform) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		content := transform(line[:n-1])
		out := make([]byte, 0, len(content)+1)
		out = append(out, content...)
		return append(out, '\n')
	}
	return transform(line)
}

// isClosedStream reports whether err is the normal end of a pump: the peer
// finished, or the other pump already tore the session down.
func isClosedStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
