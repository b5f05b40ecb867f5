// Package log provides logging utilities.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/uri"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(r uri.SplitResult[string]) slog.Value {
		return slog.GroupValue(
			slog.String("uri", r.URI()),
			partAttr("scheme", r.Scheme()),
			partAttr("authority", r.Authority()),
			slog.String("path", r.Path()),
			partAttr("query", r.Query()),
			partAttr("fragment", r.Fragment()),
		)
	}),
	slogformatter.FormatByType(func(h uri.Host[string]) slog.Value {
		return slog.GroupValue(
			slog.String("kind", h.Kind().String()),
			slog.String("value", h.String()),
		)
	}),
	slogformatter.FormatByType(func(p uri.Part[string]) slog.Value { return partAttr("", p).Value }),
)

func partAttr(key string, p uri.Part[string]) slog.Attr {
	if !p.Valid {
		return slog.Any(key, nil)
	}
	return slog.String(key, p.Val)
}

// Options configures a logger built with [New].
type Options struct {
	// Level is the minimum level of the records, defaults to info.
	Level slog.Leveler
	// Dev switches to the developer handler with sorted keys and source info.
	Dev bool
}

// New creates a logger writing to w.
func New(w io.Writer, opts *Options) *slog.Logger {
	if opts == nil {
		opts = &Options{}
	}
	lvl := opts.Level
	if lvl == nil {
		lvl = slog.LevelInfo
	}

	if opts.Dev {
		return slog.New(newHandler(
			devslog.NewHandler(w, &devslog.Options{
				HandlerOptions: &slog.HandlerOptions{
					AddSource: true,
					Level:     lvl,
				},
				SortKeys:   true,
				TimeFormat: time.RFC3339Nano,
			}),
		))
	}
	return slog.New(newHandler(
		console.NewHandler(w, &console.HandlerOptions{
			Level:      lvl,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

// ParseLevel parses the level name, "off" disables logging.
func ParseLevel(s string) (slog.Level, bool, error) {
	if strings.EqualFold(strings.TrimSpace(s), "off") {
		return 0, false, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, false, fmt.Errorf("parse log level %q: %w", s, err) //errtrace:skip
	}
	return lvl, true, nil
}

// Def is a default logger.
var Def = New(os.Stderr, &Options{Level: slog.LevelDebug})

// Dev is a developer logger.
var Dev = New(os.Stderr, &Options{Level: slog.LevelDebug, Dev: true})

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

type fmtValue struct {
	v        any
	goSyntax bool
}

func (v fmtValue) LogValue() slog.Value {
	if v.goSyntax {
		return slog.StringValue(fmt.Sprintf("%#v", v.v))
	}
	return slog.StringValue(fmt.Sprintf("%+v", v.v))
}

// FmtValue returns a value logger that formats values using '%+v' or '%#v' syntax.
func FmtValue(v any, goSyntax bool) slog.LogValuer { return fmtValue{v, goSyntax} }

type stringValue[T constraints.Byteseq] struct {
	v T
}

func (v stringValue[T]) LogValue() slog.Value {
	return slog.StringValue(string(v.v))
}

// StringValue returns a value logger that formats v as string.
func StringValue[T constraints.Byteseq](v T) slog.LogValuer { return stringValue[T]{v} }
