package relay

import (
	"bytes"
	"io"
)

const scannerStartBufSize = 4096

// Scanner is an incremental line reader that owns its buffer. Unlike
// bufio.Reader it never holds bytes it has already handed out, and it can
// cap how much it buffers while hunting for a terminator.
type Scanner struct {
	r          io.Reader
	buf        []byte
	start, end int
	max        int
	err        error
}

// NewScanner returns a Scanner reading from r. If maxLineBytes > 0, a run of
// maxLineBytes bytes without a terminator is handed out as an unterminated
// chunk instead of buffering further; 0 means no bound.
func NewScanner(r io.Reader, maxLineBytes int) *Scanner {
	size := scannerStartBufSize
	if maxLineBytes > 0 && maxLineBytes < size {
		size = maxLineBytes
	}
	return &Scanner{r: r, buf: make([]byte, size), max: maxLineBytes}
}

// ReadLine returns the next line including its trailing '\n'. At
// end-of-stream any unterminated tail is returned first (with a nil error);
// the following call reports the stream error, io.EOF for a clean close.
// chunked is true when the line was cut by the buffer bound rather than a
// terminator. The returned slice is only valid until the next call.
func (s *Scanner) ReadLine() (line []byte, chunked bool, err error) {
	for {
		if i := bytes.IndexByte(s.buf[s.start:s.end], '\n'); i >= 0 {
			line = s.buf[s.start : s.start+i+1]
			s.start += i + 1
			return line, false, nil
		}

		if s.err != nil {
			if s.start == s.end {
				return nil, false, s.err
			}
			line = s.buf[s.start:s.end]
			s.start = s.end
			return line, false, nil
		}

		if s.max > 0 && s.end-s.start >= s.max {
			line = s.buf[s.start:s.end]
			s.start = s.end
			return line, true, nil
		}

		s.fill()
	}
}

// fill makes room and reads more data, recording any read error for the
// scan loop to consume after buffered bytes are drained.
func (s *Scanner) fill() {
	if s.start > 0 {
		copy(s.buf, s.buf[s.start:s.end])
		s.end -= s.start
		s.start = 0
	}
	if s.end == len(s.buf) {
		grown := len(s.buf) * 2
		if s.max > 0 && grown > s.max {
			grown = s.max
		}
		next := make([]byte, grown)
		copy(next, s.buf[:s.end])
		s.buf = next
	}

	n, err := s.r.Read(s.buf[s.end:])
	s.end += n
	if err != nil {
		s.err = err
	}
}
