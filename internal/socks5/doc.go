package socks5

// Package socks5 implements the server side of the SOCKS5 CONNECT handshake
// (RFC 1928 subset: no-auth method selection and CONNECT request parsing).
//
// Negotiate consumes a fresh inbound connection and returns the parsed
// destination. Reply writing is built on the wire types in
// github.com/txthinking/socks5 so the byte layouts live in one place; request
// parsing is done with exact-length reads directly on the connection, leaving
// no buffered bytes behind for the relay phase.
