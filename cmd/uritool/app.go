package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"braces.dev/errtrace"
	"github.com/urfave/cli/v3"

	"github.com/ghettovoice/uritools/internal/errorutil"
	"github.com/ghettovoice/uritools/internal/log"
	"github.com/ghettovoice/uritools/uri"
)

type app struct {
	in     io.Reader
	errOut io.Writer
	out    *printer
	log    *slog.Logger
	opts   []uri.CodecComposeOption
}

func (a *app) codecOpts() []uri.Option {
	opts := make([]uri.Option, len(a.opts))
	for i, o := range a.opts {
		opts[i] = o
	}
	return opts
}

func (a *app) composeOpts(opts ...uri.ComposeOption) []uri.ComposeOption {
	out := make([]uri.ComposeOption, 0, len(a.opts)+len(opts))
	for _, o := range a.opts {
		out = append(out, o)
	}
	return append(out, opts...)
}

// setup configures the logger, the codec options and the output from the global flags.
func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	a.log = log.Noop
	if !cmd.Bool("quiet") {
		lvl, on, err := log.ParseLevel(cmd.String("log-level"))
		if err != nil {
			return ctx, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
		}
		if on {
			a.log = log.New(a.errOut, &log.Options{Level: lvl, Dev: cmd.Bool("dev")})
		}
	}

	format, err := parseFormat(cmd.String("format"))
	if err != nil {
		return ctx, errtrace.Wrap(err)
	}
	a.out.format = format

	a.opts = a.opts[:0]
	if name := cmd.String("charset"); name != "" {
		cs, err := uri.LookupCharset(name)
		if err != nil {
			return ctx, errtrace.Wrap(err)
		}
		a.opts = append(a.opts, uri.WithCharset(cs))
	}
	if cmd.IsSet("errors") {
		p, err := uri.ParseErrorPolicy(cmd.String("errors"))
		if err != nil {
			return ctx, errtrace.Wrap(err)
		}
		a.opts = append(a.opts, p)
	}

	a.log.DebugContext(ctx, "uritool configured",
		slog.String("format", format),
		slog.String("charset", cmd.String("charset")),
		slog.String("errors", cmd.String("errors")),
	)
	return ctx, nil
}

// inputs expands the arguments, "-" is replaced by the lines of the standard input.
// Lines are taken verbatim except for a trailing CR, empty lines are skipped.
func (a *app) inputs(name string, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("%s: missing arguments", name))
	}

	var out []string
	for _, arg := range args {
		if arg != "-" {
			out = append(out, arg)
			continue
		}
		sc := bufio.NewScanner(a.in)
		for sc.Scan() {
			if line := strings.TrimSuffix(sc.Text(), "\r"); line != "" {
				out = append(out, line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return out, nil
}

// each applies fn to every command argument and prints the results.
func (a *app) each(ctx context.Context, cmd *cli.Command, fn func(in string) (any, error)) error {
	return errtrace.Wrap(a.eachOf(ctx, cmd.Name, cmd.Args().Slice(), fn))
}

// eachOf applies fn to every input and prints the results.
// Failed inputs are logged and reported together after the whole batch is processed.
func (a *app) eachOf(ctx context.Context, name string, args []string, fn func(in string) (any, error)) error {
	ins, err := a.inputs(name, args)
	if err != nil {
		return errtrace.Wrap(err)
	}

	var errs []error
	for _, in := range ins {
		if err := ctx.Err(); err != nil {
			return errtrace.Wrap(err)
		}

		res, err := fn(in)
		if err != nil {
			a.log.WarnContext(ctx, "input failed", slog.String("cmd", name), slog.String("input", in), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%q: %w", in, err)) //errtrace:skip
			continue
		}
		a.log.DebugContext(ctx, "input processed", slog.String("cmd", name), slog.String("input", in))
		if err := a.out.print(res); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return errtrace.Wrap(errorutil.JoinPrefix(
		fmt.Sprintf("%s: %d of %d inputs failed:", name, len(errs), len(ins)),
		errs...,
	))
}

func newCommand(in io.Reader, out, errOut io.Writer) *cli.Command {
	a := &app{
		in:     in,
		errOut: errOut,
		out:    &printer{w: out, format: formatText},
		log:    log.Noop,
	}

	return &cli.Command{
		Name:      "uritool",
		Usage:     "RFC 3986 URI reference toolkit",
		Writer:    out,
		ErrWriter: errOut,

		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "charset",
				Usage:   "IANA name of the charset used for percent-encoding",
				Value:   "utf-8",
				Sources: cli.EnvVars("URITOOL_CHARSET"),
			},
			&cli.StringFlag{
				Name:    "errors",
				Usage:   "charset error policy: strict or replace, each operation has its own default",
				Sources: cli.EnvVars("URITOOL_ERRORS"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: text, json or yaml",
				Value:   formatText,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level: debug, info, warn, error or off",
				Value:   "warn",
				Sources: cli.EnvVars("URITOOL_LOG"),
			},
			&cli.BoolFlag{Name: "dev", Usage: "developer friendly log output"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "disable logging"},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			a.splitCommand(),
			a.unsplitCommand(),
			a.composeCommand(),
			a.joinCommand(),
			a.normalizeCommand(),
			a.defragCommand(),
			a.encodeCommand(),
			a.decodeCommand(),
			a.idnCommand("idn-encode", "convert domain names to the ASCII compatible form", uri.IDNEncode[string]),
			a.idnCommand("idn-decode", "convert domain names to the Unicode form", uri.IDNDecode[string]),
		},
	}
}

func (a *app) splitCommand() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "split URI references into components",
		ArgsUsage: "URI...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "decode", Aliases: []string{"d"}, Usage: "also print the decoded components"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return errtrace.Wrap(a.each(ctx, cmd, func(in string) (any, error) {
				r := uri.Split(in)
				o := newSplitOutput(r)
				if cmd.Bool("decode") {
					d, err := newDecodedOutput(r, a.codecOpts())
					if err != nil {
						return nil, errtrace.Wrap(err)
					}
					o.Decoded = d
				}
				return o, nil
			}))
		},
	}
}

func (a *app) unsplitCommand() *cli.Command {
	return &cli.Command{
		Name:  "unsplit",
		Usage: "recombine raw components into a URI reference",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scheme"},
			&cli.StringFlag{Name: "authority"},
			&cli.StringFlag{Name: "path"},
			&cli.StringFlag{Name: "query"},
			&cli.StringFlag{Name: "fragment"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			part := func(name string) uri.Part[string] {
				if !cmd.IsSet(name) {
					return uri.None[string]()
				}
				return uri.Some(cmd.String(name))
			}
			r := uri.NewSplitResult(part("scheme"), part("authority"), cmd.String("path"), part("query"), part("fragment"))
			return errtrace.Wrap(a.out.print(scalarOutput{Input: fmt.Sprintf("%+v", r), Output: uri.Unsplit(r)}))
		},
	}
}

func (a *app) composeCommand() *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "build a URI from decoded components",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scheme"},
			&cli.StringFlag{Name: "userinfo"},
			&cli.StringFlag{Name: "host"},
			&cli.StringFlag{Name: "port"},
			&cli.StringFlag{Name: "path"},
			&cli.StringFlag{Name: "query", Usage: "query string, encoded as is"},
			&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "query parameter as key=value or a bare key"},
			&cli.StringFlag{Name: "fragment"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var opts []uri.ComposeOption
			if cmd.IsSet("scheme") {
				opts = append(opts, uri.WithScheme(cmd.String("scheme")))
			}
			if cmd.IsSet("userinfo") {
				opts = append(opts, uri.WithUserinfo(cmd.String("userinfo")))
			}
			if cmd.IsSet("host") {
				opts = append(opts, uri.WithHost(cmd.String("host")))
			}
			if cmd.IsSet("port") {
				opts = append(opts, uri.WithPort(cmd.String("port")))
			}
			if cmd.IsSet("path") {
				opts = append(opts, uri.WithPath(cmd.String("path")))
			}
			switch {
			case cmd.IsSet("query") && cmd.IsSet("param"):
				return errtrace.Wrap(errorutil.NewInvalidArgumentError("--query and --param are mutually exclusive"))
			case cmd.IsSet("query"):
				opts = append(opts, uri.WithQuery(cmd.String("query")))
			case cmd.IsSet("param"):
				var l uri.QueryList[string]
				for _, p := range cmd.StringSlice("param") {
					k, v, ok := strings.Cut(p, "=")
					item := uri.QueryItem[string]{Key: k}
					if ok {
						item.Value = uri.Some(v)
					}
					l = append(l, item)
				}
				opts = append(opts, uri.WithQuery(l))
			}
			if cmd.IsSet("fragment") {
				opts = append(opts, uri.WithFragment(cmd.String("fragment")))
			}

			res, err := uri.Compose(a.composeOpts(opts...)...)
			if err != nil {
				a.log.WarnContext(ctx, "compose failed", slog.Any("error", err))
				return errtrace.Wrap(err)
			}
			return errtrace.Wrap(a.out.print(scalarOutput{Output: res}))
		},
	}
}

func (a *app) joinCommand() *cli.Command {
	return &cli.Command{
		Name:      "join",
		Usage:     "resolve references against a base URI",
		ArgsUsage: "BASE REF...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "strict", Usage: "treat a reference with the base scheme as absolute"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 2 {
				return errtrace.Wrap(errorutil.NewInvalidArgumentError("join: base and at least one reference are required"))
			}
			base := uri.Split(cmd.Args().First())
			return errtrace.Wrap(a.eachOf(ctx, cmd.Name, cmd.Args().Tail(), func(ref string) (any, error) {
				return scalarOutput{Input: ref, Output: base.Resolve(ref, cmd.Bool("strict")).URI()}, nil
			}))
		},
	}
}

func (a *app) normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "normalize URI references",
		ArgsUsage: "URI...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return errtrace.Wrap(a.each(ctx, cmd, func(in string) (any, error) {
				res, err := uri.Normalize(in, a.codecOpts()...)
				if err != nil {
					return nil, errtrace.Wrap(err)
				}
				return scalarOutput{Input: in, Output: res}, nil
			}))
		},
	}
}

func (a *app) defragCommand() *cli.Command {
	return &cli.Command{
		Name:      "defrag",
		Usage:     "strip fragments from URI references",
		ArgsUsage: "URI...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "decode", Aliases: []string{"d"}, Usage: "decode the fragment"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return errtrace.Wrap(a.each(ctx, cmd, func(in string) (any, error) {
				r := uri.Defrag(in)
				frag := r.Fragment()
				if cmd.Bool("decode") {
					var err error
					if frag, err = r.GetFragment(a.codecOpts()...); err != nil {
						return nil, errtrace.Wrap(err)
					}
				}
				return defragOutput{URI: in, Base: r.Base(), Fragment: partPtr(frag)}, nil
			}))
		},
	}
}

func (a *app) encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "percent-encode strings",
		ArgsUsage: "STRING...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "safe", Usage: "characters left unencoded besides the unreserved ones", Value: "/"},
			&cli.BoolFlag{Name: "plus", Usage: "encode space as '+'"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			enc := uri.Encode[string]
			if cmd.Bool("plus") {
				enc = uri.EncodePlus[string]
			}
			return errtrace.Wrap(a.each(ctx, cmd, func(in string) (any, error) {
				res, err := enc(in, cmd.String("safe"), a.codecOpts()...)
				if err != nil {
					return nil, errtrace.Wrap(err)
				}
				return scalarOutput{Input: in, Output: res}, nil
			}))
		},
	}
}

func (a *app) decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "percent-decode strings",
		ArgsUsage: "STRING...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "plus", Usage: "decode '+' as space"},
			&cli.BoolFlag{Name: "safe-decode", Usage: "keep control characters encoded and replace charset errors"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var dec func(string, ...uri.Option) (string, error)
			switch plus, safe := cmd.Bool("plus"), cmd.Bool("safe-decode"); {
			case plus && safe:
				dec = uri.DecodeSafePlus[string]
			case plus:
				dec = uri.DecodePlus[string]
			case safe:
				dec = uri.DecodeSafe[string]
			default:
				dec = uri.Decode[string]
			}
			return errtrace.Wrap(a.each(ctx, cmd, func(in string) (any, error) {
				res, err := dec(in, a.codecOpts()...)
				if err != nil {
					return nil, errtrace.Wrap(err)
				}
				return scalarOutput{Input: in, Output: res}, nil
			}))
		},
	}
}

func (a *app) idnCommand(name, usage string, conv func(string, ...uri.Option) (string, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "NAME...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return errtrace.Wrap(a.each(ctx, cmd, func(in string) (any, error) {
				res, err := conv(in, a.codecOpts()...)
				if err != nil {
					return nil, errtrace.Wrap(err)
				}
				return scalarOutput{Input: in, Output: res}, nil
			}))
		},
	}
}
