package ioutil_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ghettovoice/uritools/internal/ioutil"
)

var errWriteFailed = errors.New("write failed")

type errorWriter struct {
	failAfter int
	written   int
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	if ew.written >= ew.failAfter {
		return 0, errWriteFailed
	}
	n = len(p)
	if ew.written+n > ew.failAfter {
		n = ew.failAfter - ew.written
	}
	ew.written += n
	if n < len(p) {
		return n, errWriteFailed
	}
	return n, nil
}

func TestCountingWriter_Write(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cw := ioutil.NewCountingWriter(buf)

	if n, err := cw.Write([]byte("hello")); err != nil || n != 5 {
		t.Fatalf("cw.Write(\"hello\") = (%d, %v), want (5, nil)", n, err)
	}
	if n, err := cw.WriteString(" world"); err != nil || n != 6 {
		t.Fatalf("cw.WriteString(\" world\") = (%d, %v), want (6, nil)", n, err)
	}
	if got := cw.Count(); got != 11 {
		t.Errorf("cw.Count() = %d, want 11", got)
	}
	if got := buf.String(); got != "hello world" {
		t.Errorf("buf.String() = %q, want %q", got, "hello world")
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		w       *errorWriter
		vals    []string
		wantNum int
		wantErr error
	}{
		{"all written", &errorWriter{failAfter: 100}, []string{"http", ":", "", "//", "a"}, 8, nil},
		{"partial", &errorWriter{failAfter: 5}, []string{"http", ":", "//", "a"}, 5, errWriteFailed},
		{"stops after error", &errorWriter{failAfter: 0}, []string{"x", "y"}, 0, errWriteFailed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			cw := ioutil.GetCountingWriter(c.w)
			defer ioutil.FreeCountingWriter(cw)

			num, err := ioutil.Print(cw, c.vals...).Result()
			if num != c.wantNum {
				t.Errorf("num = %d, want %d", num, c.wantNum)
			}
			if !errors.Is(err, c.wantErr) {
				t.Errorf("err = %v, want %v", err, c.wantErr)
			}
		})
	}
}
