package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/uritools/internal/errorutil"
	"github.com/ghettovoice/uritools/uri"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newCommand(strings.NewReader(stdin), &out, &errOut)
	err := cmd.Run(t.Context(), append([]string{"uritool", "--quiet"}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"normalize", "", []string{"normalize", "HTTP://Example.COM:80/a/../b/%7e"}, "http://example.com/b/~\n"},
		{
			"normalize many",
			"",
			[]string{"normalize", "http://a.com:80", "http://XBLAのXbox.com"},
			"http://a.com/\nhttp://xn--xblaxbox-jf4g.com/\n",
		},
		{"normalize stdin", "http://a.com:80\n\nhttp://b.com./x\n", []string{"normalize", "-"}, "http://a.com/\nhttp://b.com/x\n"},
		{"join", "", []string{"join", "http://a/b/c/d;p?q", "../g", "?y", "g:h"}, "http://a/b/g\nhttp://a/b/c/d;p?y\ng:h\n"},
		{"join legacy", "", []string{"join", "http://a/b/c/d;p?q", "http:g"}, "http://a/b/c/g\n"},
		{"join strict", "", []string{"join", "--strict", "http://a/b/c/d;p?q", "http:g"}, "http:g\n"},
		{"defrag", "", []string{"defrag", "http://a/b#c%20d", "http://a/b"}, "http://a/b\tc%20d\nhttp://a/b\n"},
		{"defrag decode", "", []string{"defrag", "--decode", "http://a/b#c%20d"}, "http://a/b\tc d\n"},
		{"encode", "", []string{"encode", "a b/c?"}, "a%20b/c%3F\n"},
		{"encode stdin keeps spaces", " a b \r\n\r\n\tc\n", []string{"encode", "-"}, "%20a%20b%20\n%09c\n"},
		{"decode stdin crlf", "a%20b\r\nc+d\r\n", []string{"decode", "-"}, "a b\nc+d\n"},
		{"encode safe", "", []string{"encode", "--safe", "?", "a/b?"}, "a%2Fb?\n"},
		{"encode plus", "", []string{"encode", "--plus", "a b+c"}, "a+b%2Bc\n"},
		{"encode latin-1", "", []string{"--charset", "iso-8859-1", "encode", "ü"}, "%FC\n"},
		{"decode", "", []string{"decode", "a%20b+c"}, "a b+c\n"},
		{"decode plus", "", []string{"decode", "--plus", "a%20b+c"}, "a b c\n"},
		{"decode safe", "", []string{"decode", "--safe-decode", "a%0Ab%FF"}, "a%0Ab�\n"},
		{"decode replace", "", []string{"--errors", "replace", "decode", "%FF"}, "�\n"},
		{"idn-encode", "", []string{"idn-encode", "Bücher.example"}, "xn--bcher-kva.example\n"},
		{"idn-decode", "", []string{"idn-decode", "xn--bcher-kva.example"}, "bücher.example\n"},
		{
			"compose",
			"",
			[]string{
				"compose", "--scheme", "http", "--host", "example.com", "--port", "8080",
				"--path", "/a b", "--param", "q=x y", "--param", "flag", "--fragment", "top",
			},
			"http://example.com:8080/a%20b?q=x+y&flag#top\n",
		},
		{
			"unsplit",
			"",
			[]string{"unsplit", "--scheme", "file", "--authority", "", "--path", "/etc/hosts", "--query", ""},
			"file:///etc/hosts?\n",
		},
		{
			"split",
			"",
			[]string{"split", "http://user@example.com:8080/p?q#f"},
			`uri: "http://user@example.com:8080/p?q#f"
scheme: "http"
authority: "user@example.com:8080"
userinfo: "user"
host: "example.com"
port: "8080"
path: "/p"
query: "q"
fragment: "f"
`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := run(t, c.stdin, c.args...)
			if err != nil {
				t.Fatalf("run(%q) error = %v, want nil", c.args, err)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("run(%q) output mismatch\ndiff (-got +want):\n%v", c.args, diff)
			}
		})
	}
}

func TestCommands_JSON(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "--format", "json", "split", "--decode", "http://ex%41mple.com:81/a%20b?x=1&y#f")
	if err != nil {
		t.Fatalf("run() error = %v, want nil", err)
	}

	var got splitOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, want nil", err)
	}
	if got.Decoded == nil {
		t.Fatal("decoded components are missing")
	}
	if got.Decoded.Host == nil || *got.Decoded.Host != "example.com" {
		t.Errorf("decoded.host = %v, want %q", got.Decoded.Host, "example.com")
	}
	if got.Decoded.Port == nil || *got.Decoded.Port != 81 {
		t.Errorf("decoded.port = %v, want %d", got.Decoded.Port, 81)
	}
	if got.Decoded.Path != "/a b" {
		t.Errorf("decoded.path = %q, want %q", got.Decoded.Path, "/a b")
	}
	one := "1"
	wantQuery := []queryParam{{Key: "x", Value: &one}, {Key: "y"}}
	if diff := cmp.Diff(got.Decoded.Query, wantQuery); diff != "" {
		t.Errorf("decoded.query mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestCommands_YAML(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "-f", "yaml", "normalize", "http://a.com:80", "http://b.com:81")
	if err != nil {
		t.Fatalf("run() error = %v, want nil", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(out))
	var got []scalarOutput
	for {
		var o scalarOutput
		if err := dec.Decode(&o); err != nil {
			break
		}
		got = append(got, o)
	}
	want := []scalarOutput{
		{Input: "http://a.com:80", Output: "http://a.com/"},
		{Input: "http://b.com:81", Output: "http://b.com:81/"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("yaml output mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestCommands_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		args     []string
		wantOut  string
		wantErr  error
		wantCode int
	}{
		{
			"batch keeps going",
			[]string{"normalize", "http://[::1/", "http://a.com:80", "http://a.com:99999"},
			"http://a.com/\n",
			uri.ErrInvalidHost,
			1,
		},
		{"missing args", []string{"normalize"}, "", errorutil.ErrInvalidArgument, 2},
		{"bad format", []string{"--format", "xml", "normalize", "a"}, "", errorutil.ErrInvalidArgument, 2},
		{"bad idn", []string{"idn-encode", strings.Repeat("a", 64)}, "", uri.ErrIDNA, 1},
		{"bad compose", []string{"compose", "--scheme", "1http"}, "", uri.ErrInvalidScheme, 1},
		{"query and params", []string{"compose", "--query", "a", "--param", "b"}, "", errorutil.ErrInvalidArgument, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, "", c.args...)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("run(%q) error = %v, want %v", c.args, err, c.wantErr)
			}
			if got := exitCode(err); got != c.wantCode {
				t.Errorf("exitCode(%v) = %d, want %d", err, got, c.wantCode)
			}
			if out != c.wantOut {
				t.Errorf("run(%q) output = %q, want %q", c.args, out, c.wantOut)
			}
		})
	}
}
