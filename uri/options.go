package uri

import (
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/ghettovoice/uritools/internal/errorutil"
)

// ErrorPolicy selects how charset transcoding failures are handled.
type ErrorPolicy uint8

const (
	// Strict fails with [ErrEncoding] on the first byte or rune that cannot be transcoded.
	Strict ErrorPolicy = iota + 1
	// Replace substitutes a placeholder for every byte or rune that cannot be transcoded.
	Replace
)

func (p ErrorPolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Replace:
		return "replace"
	default:
		return "default"
	}
}

// ApplyCodec implements [Option].
func (p ErrorPolicy) ApplyCodec(opts *CodecOptions) { opts.Errors = p }

// ApplyCompose implements [ComposeOption].
func (p ErrorPolicy) ApplyCompose(opts *ComposeOptions) { opts.Codec = append(opts.Codec, p) }

// ParseErrorPolicy parses the policy name ("strict" or "replace").
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict, nil
	case "replace":
		return Replace, nil
	default:
		return 0, errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown error policy %q", s))
	}
}

// CodecOptions holds the settings of the encode and decode operations.
type CodecOptions struct {
	Charset encoding.Encoding
	Errors  ErrorPolicy
	IDNA    IDNA
}

// Option configures the encode and decode operations.
type Option interface {
	ApplyCodec(opts *CodecOptions)
}

func newCodecOptions(policy ErrorPolicy, opts []Option) *CodecOptions {
	o := &CodecOptions{
		Charset: unicode.UTF8,
		Errors:  policy,
		IDNA:    DefaultIDNA,
	}
	for _, opt := range opts {
		if opt != nil {
			opt.ApplyCodec(o)
		}
	}
	if o.Charset == nil {
		o.Charset = unicode.UTF8
	}
	if o.Errors == 0 {
		o.Errors = policy
	}
	if o.IDNA == nil {
		o.IDNA = DefaultIDNA
	}
	return o
}

// ComposeOptions holds the components passed to [Compose].
type ComposeOptions struct {
	Codec []Option

	scheme    *string
	authority any
	userinfo  *string
	host      any
	port      any
	path      string
	query     any
	fragment  *string
}

// ComposeOption configures [Compose].
type ComposeOption interface {
	ApplyCompose(opts *ComposeOptions)
}

type withCharset struct {
	cs encoding.Encoding
}

func (o withCharset) ApplyCodec(opts *CodecOptions) { opts.Charset = o.cs }

func (o withCharset) ApplyCompose(opts *ComposeOptions) { opts.Codec = append(opts.Codec, o) }

// CodecComposeOption is an option accepted both by codec operations and by [Compose].
type CodecComposeOption interface {
	Option
	ComposeOption
}

// WithCharset sets the charset used to transcode text to bytes and back.
// UTF-8 is used by default.
func WithCharset(cs encoding.Encoding) CodecComposeOption {
	return withCharset{cs}
}

type withIDNA struct {
	p IDNA
}

func (o withIDNA) ApplyCodec(opts *CodecOptions) { opts.IDNA = o.p }

func (o withIDNA) ApplyCompose(opts *ComposeOptions) { opts.Codec = append(opts.Codec, o) }

// WithIDNA replaces the IDNA codec. [DefaultIDNA] is used by default.
func WithIDNA(p IDNA) CodecComposeOption {
	return withIDNA{p}
}

// LookupCharset returns the encoding registered under the IANA name or alias.
func LookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	cs, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	if cs == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("charset %q is not supported", name))
	}
	return cs, nil
}
