package stream

import (
	"bufio"
	"bytes"
	"io"
)

// lineReader reads newline-delimited JSON payloads from a streaming
// response body. The API sends blank keep-alive lines every few
// seconds; the reader swallows them so consumers only see payloads.
type lineReader struct {
	r    *bufio.Reader
	body io.ReadCloser
}

func newLineReader(body io.ReadCloser) *lineReader {
	return &lineReader{
		r:    bufio.NewReader(body),
		body: body,
	}
}

// Next returns the next non-empty payload line. Returns io.EOF when
// the stream ends cleanly.
func (l *lineReader) Next() ([]byte, error) {
	for {
		line, err := l.r.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return line, nil
			}
			return nil, err
		}
		if len(line) == 0 {
			// keep-alive
			continue
		}
		return line, nil
	}
}

// Close releases the underlying response body.
func (l *lineReader) Close() error {
	return l.body.Close()
}
