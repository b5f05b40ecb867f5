package log_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ghettovoice/uritools/internal/log"
	"github.com/ghettovoice/uritools/uri"
)

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := log.New(&buf, &log.Options{Level: slog.LevelInfo})

	l.Debug("hidden")
	l.Info("split",
		slog.Any("result", uri.Split("http://example.com/a?q#f")),
		slog.Any("host", uri.NameHost("example.com")),
		slog.Any("error", errors.New("boom")),
		slog.Any("raw", log.StringValue([]byte("raw-bytes"))),
	)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains debug record:\n%s", out)
	}
	for _, want := range []string{"split", "http://example.com/a?q#f", "example.com", "boom", "raw-bytes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestNew_Dev(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := log.New(&buf, &log.Options{Level: slog.LevelDebug, Dev: true})
	l.Debug("dev record", slog.Any("v", log.FmtValue(uri.Some("x"), false)))
	if !strings.Contains(buf.String(), "dev record") {
		t.Errorf("output does not contain the record:\n%s", buf.String())
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	if log.Noop.Enabled(t.Context(), slog.LevelError) {
		t.Error("log.Noop.Enabled() = true, want false")
	}
	log.Noop.With("k", "v").WithGroup("g").Error("ignored")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    slog.Level
		wantOn  bool
		wantErr bool
	}{
		{"debug", slog.LevelDebug, true, false},
		{"INFO", slog.LevelInfo, true, false},
		{" warn ", slog.LevelWarn, true, false},
		{"error", slog.LevelError, true, false},
		{"off", 0, false, false},
		{"loud", 0, false, true},
	}

	for _, c := range cases {
		got, on, err := log.ParseLevel(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("log.ParseLevel(%q) error = %v, want error %v", c.in, err, c.wantErr)
		}
		if got != c.want || on != c.wantOn {
			t.Errorf("log.ParseLevel(%q) = %v, %v, want %v, %v", c.in, got, on, c.want, c.wantOn)
		}
	}
}
