package stream

import (
	"io"
	"strings"
	"testing"
)

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

func newBody(s string) io.ReadCloser {
	return nopCloser{strings.NewReader(s)}
}

func TestLineReader_Payloads(t *testing.T) {
	r := newLineReader(newBody("{\"data\":1}\r\n{\"data\":2}\r\n"))
	defer r.Close()

	first, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first) != `{"data":1}` {
		t.Errorf("got %q", first)
	}

	second, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second) != `{"data":2}` {
		t.Errorf("got %q", second)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("got %v, want io.EOF", err)
	}
}

func TestLineReader_SkipsKeepAlives(t *testing.T) {
	r := newLineReader(newBody("\r\n\r\n{\"data\":1}\r\n\r\n"))
	defer r.Close()

	line, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(line) != `{"data":1}` {
		t.Errorf("got %q", line)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("got %v, want io.EOF", err)
	}
}

func TestLineReader_FinalLineWithoutNewline(t *testing.T) {
	r := newLineReader(newBody(`{"data":1}`))
	defer r.Close()

	line, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(line) != `{"data":1}` {
		t.Errorf("got %q", line)
	}
}
