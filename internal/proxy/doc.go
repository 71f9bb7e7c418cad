package proxy

// Package proxy implements the listener-side SOCKS5 server: the accept
// loop, per-connection negotiation, and the handoff of both sockets to the
// line relay. It also carries shared connection plumbing such as the
// keepalive listener.
