package errorutil_test

import (
	"errors"
	"testing"

	"github.com/ghettovoice/uritools/internal/errorutil"
)

const errSentinel errorutil.Error = "sentinel"

func TestNewWrapperError(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	cases := []struct {
		name    string
		args    []any
		wantMsg string
	}{
		{"no args", nil, "sentinel"},
		{"error", []any{cause}, "sentinel: cause"},
		{"already wrapped", []any{errorutil.NewWrapperError(errSentinel, "x")}, "sentinel: x"},
		{"message", []any{"bad %q"}, `sentinel: bad %q`},
		{"format", []any{"bad %q", "val"}, `sentinel: bad "val"`},
		{"unknown arg", []any{42}, "sentinel"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			err := errorutil.NewWrapperError(errSentinel, c.args...)
			if !errors.Is(err, errSentinel) {
				t.Errorf("errors.Is(%v, errSentinel) = false, want true", err)
			}
			if got := err.Error(); got != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got, c.wantMsg)
			}
		})
	}
}

func TestJoinPrefix(t *testing.T) {
	t.Parallel()

	e1, e2 := errors.New("first"), errors.New("second\nline")

	if err := errorutil.JoinPrefix("failed", nil, nil); err != nil {
		t.Errorf("errorutil.JoinPrefix(nil, nil) = %v, want nil", err)
	}

	err := errorutil.JoinPrefix("failed:", e1)
	if got, want := err.Error(), "failed: first"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}

	err = errorutil.JoinPrefix("failed:", e1, nil, e2)
	if got, want := err.Error(), "failed:\n  - first\n  - second\n    line"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("errors.Is(%v, e1/e2) = false, want true", err)
	}
}
