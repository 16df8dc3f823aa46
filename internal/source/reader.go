package source

import (
	"bufio"
	"io"
	"strings"
)

// Reader yields trimmed logical lines from an underlying byte stream.
// It keeps a single line of lookahead so callers can peek without consuming.
type Reader struct {
	r      *bufio.Reader
	peeked *string
	eof    bool
	err    error
}

// NewReader wraps r. The reader is never closed by Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line with its newline stripped and surrounding
// whitespace trimmed. ok is false once the source is exhausted.
func (s *Reader) ReadLine() (line string, ok bool) {
	if s.peeked != nil {
		line = *s.peeked
		s.peeked = nil
		return line, true
	}
	return s.next()
}

// PeekLine returns the next line without consuming it.
func (s *Reader) PeekLine() (line string, ok bool) {
	if s.peeked != nil {
		return *s.peeked, true
	}
	line, ok = s.next()
	if ok {
		s.peeked = &line
	}
	return line, ok
}

// ReadLinesUntil accumulates lines, separated by single spaces, until pred
// reports true for a line (that line is included) or the source runs out.
// Blank lines contribute no separator. ok is false when nothing but
// whitespace was read.
func (s *Reader) ReadLinesUntil(pred func(line string) bool) (joined string, ok bool) {
	var b strings.Builder
	for {
		line, more := s.ReadLine()
		if !more {
			break
		}
		b.WriteString(line)
		if pred(line) {
			break
		}
		if line != "" {
			b.WriteByte(' ')
		}
	}
	joined = strings.TrimSpace(b.String())
	return joined, joined != ""
}

// Err returns the first non-EOF error encountered while reading.
func (s *Reader) Err() error {
	return s.err
}

func (s *Reader) next() (string, bool) {
	if s.eof {
		return "", false
	}
	raw, err := s.r.ReadString('\n')
	if err != nil {
		// a trailing unterminated line is still delivered
		s.eof = true
		if err != io.EOF {
			s.err = err
		}
		if raw == "" {
			return "", false
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(raw, "\n")), true
}
