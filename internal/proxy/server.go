package proxy

import (
	"context"
	"log"
	"net"
	"time"

	"github.com/pronoxy/pronoxy/internal/relay"
	"github.com/pronoxy/pronoxy/internal/socks5"
)

// Server is the SOCKS5 proxy server. Each accepted connection gets its own
// goroutine for negotiation, then two more for the relay pumps; sessions
// share nothing, so one misbehaving client never affects another.
type Server struct {
	ctx     context.Context
	cfg     Config
	verbose bool
}

// NewServer returns a Server whose sessions live under ctx; canceling it
// tears down in-flight relays.
func NewServer(ctx context.Context, cfg Config, verbose bool) *Server {
	return &Server{ctx: ctx, cfg: cfg, verbose: verbose}
}

// Serve accepts connections until ln fails, typically because it was
// closed.
func (s *Server) Serve(ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(c)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetKeepAliveConfig(s.cfg.KeepAlive)
	}

	if s.cfg.NegotiationTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.NegotiationTimeout))
	}

	req, err := socks5.Negotiate(conn)
	if err != nil {
		s.logf("%s: negotiate: %v", conn.RemoteAddr(), err)
		return
	}

	upstream, err := s.cfg.Dialer.DialContext(s.ctx, "tcp", req.Address())
	if err != nil {
		socks5.WriteErrorReply(conn, socks5.ReplyForDialError(err))
		s.logf("%s: connect %s: %v", conn.RemoteAddr(), req.Address(), err)
		return
	}
	defer upstream.Close()

	if err := socks5.WriteSuccessReply(conn, upstream.LocalAddr()); err != nil {
		s.logf("%s: %v", conn.RemoteAddr(), err)
		return
	}

	_ = conn.SetDeadline(time.Time{})

	opts := relay.Options{RewriteBoth: s.cfg.RewriteBoth, MaxLineBytes: s.cfg.MaxLineBytes}
	if err := relay.Run(s.ctx, conn, upstream, s.cfg.Transform, opts); err != nil {
		s.logf("%s: relay %s: %v", conn.RemoteAddr(), req.Address(), err)
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.verbose {
		log.Printf(format, args...)
	}
}
