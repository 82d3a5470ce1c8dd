// ABOUTME: Line splitting for streamed bodies that may use CR, LF or CRLF terminators.
// ABOUTME: Terminators are recognized regardless of how the transport chunks the bytes.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// lineScanner reads lines from an io.Reader. bufio.Scanner only handles LF and
// CRLF, so a standalone CR is treated as a terminator here as well.
type lineScanner struct {
	reader *bufio.Reader
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{reader: bufio.NewReaderSize(r, 4096)}
}

// readLine returns the next line without its terminator. A final unterminated
// line is returned before io.EOF.
func (s *lineScanner) readLine() (string, error) {
	var line strings.Builder
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			if err == io.EOF && line.Len() > 0 {
				return line.String(), nil
			}
			return "", err
		}

		switch b {
		case '\n':
			return line.String(), nil
		case '\r':
			// CRLF counts once.
			if next, err := s.reader.ReadByte(); err == nil && next != '\n' {
				_ = s.reader.UnreadByte()
			}
			return line.String(), nil
		}
		line.WriteByte(b)
	}
}
