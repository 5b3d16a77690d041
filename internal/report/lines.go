package report

import (
	"bufio"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// Lines yields lines without their terminators and counts how many it
// has handed out. One line can be pushed back.
type Lines struct {
	sc      *bufio.Scanner
	read    int
	pending *string
}

func NewLines(r io.Reader) *Lines {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Lines{sc: sc}
}

// Next returns the next line, or false at end of input or on a read error.
func (lr *Lines) Next() (string, bool) {
	if lr.pending != nil {
		line := *lr.pending
		lr.pending = nil
		lr.read++
		return line, true
	}
	if !lr.sc.Scan() {
		return "", false
	}
	line := lr.sc.Text()
	if lr.read == 0 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	lr.read++
	return line, true
}

// Unread pushes line back so the following Next returns it again.
func (lr *Lines) Unread(line string) {
	lr.pending = &line
	lr.read--
}

// Skip discards n lines.
func (lr *Lines) Skip(n int) {
	for i := 0; i < n; i++ {
		if _, ok := lr.Next(); !ok {
			return
		}
	}
}

// Line is the 1-based number of the line last returned by Next.
func (lr *Lines) Line() int { return lr.read }

func (lr *Lines) Err() error { return lr.sc.Err() }

// Reader exposes the remaining lines as a byte stream, one "\n" per line.
func (lr *Lines) Reader() io.Reader { return &linesStream{src: lr} }

type linesStream struct {
	src *Lines
	buf []byte
}

func (s *linesStream) Read(p []byte) (int, error) {
	for len(s.buf) == 0 {
		line, ok := s.src.Next()
		if !ok {
			if err := s.src.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		s.buf = append(append(s.buf[:0], line...), '\n')
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}
