package relay

// Package relay pumps line-oriented text between the two sockets of a
// proxied session, applying a pluggable transform to the server-to-client
// direction (or both).
//
// Lines are framed by '\n'. A trailing '\r' is content, preserved verbatim,
// so protocols that depend on exact CRLF bytes round-trip unchanged; the
// terminator itself is split off before the transform runs and re-appended
// untouched. Data with no trailing terminator at end-of-stream is still one
// line.
//
// When either pump finishes, both sockets are closed. Closure of the peer
// pump is best-effort: it may sit in a blocked read until the close is
// noticed. Reads carry no deadline during relay, so an idle session holds
// its resources indefinitely. Both are accepted limitations of the design.
