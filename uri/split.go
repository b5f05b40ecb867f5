package uri

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/grammar"
	"github.com/ghettovoice/uritools/internal/ioutil"
	"github.com/ghettovoice/uritools/internal/util"
)

// SplitResult holds the five generic components of a URI reference
// together with the userinfo, host and port subcomponents of its authority.
// All components keep their raw percent-encoded form, the Get* methods decode them.
//
// SplitResult is immutable and safe for concurrent use.
type SplitResult[T constraints.Byteseq] struct {
	scheme    Part[T]
	authority Part[T]
	path      T
	query     Part[T]
	fragment  Part[T]

	userinfo Part[T]
	host     Part[T]
	port     Part[T]
}

// NewSplitResult builds a split result from raw components.
func NewSplitResult[T constraints.Byteseq](scheme, authority Part[T], path T, query, fragment Part[T]) SplitResult[T] {
	r := SplitResult[T]{
		scheme:    scheme,
		authority: authority,
		path:      path,
		query:     query,
		fragment:  fragment,
	}
	if authority.Valid {
		r.userinfo, r.host, r.port = splitAuthority(authority.Val)
	}
	return r
}

// Split splits the URI reference into its components:
//
//	[scheme ":"] ["//" authority] path ["?" query] ["#" fragment]
//
// Absent components are distinguished from empty ones. Split never fails,
// malformed components are reported by the Get* methods.
func Split[T constraints.Byteseq](uri T) SplitResult[T] {
	var scheme, authority, query, fragment Part[T]

	rest := uri
	if i := util.IndexByte(rest, '#'); i >= 0 {
		fragment = Some(rest[i+1:])
		rest = rest[:i]
	}
	if i := util.IndexByte(rest, '?'); i >= 0 {
		query = Some(rest[i+1:])
		rest = rest[:i]
	}
	if i := util.IndexByte(rest, ':'); i > 0 && grammar.IsScheme(rest[:i]) {
		scheme = Some(rest[:i])
		rest = rest[i+1:]
	}
	if util.HasPrefix(rest, "//") {
		rest = rest[2:]
		i := util.IndexByte(rest, '/')
		if i < 0 {
			i = len(rest)
		}
		authority = Some(rest[:i])
		rest = rest[i:]
	}
	return NewSplitResult(scheme, authority, rest, query, fragment)
}

// Unsplit recomposes the URI reference from its raw components.
func Unsplit[T constraints.Byteseq](parts SplitResult[T]) T { return parts.URI() }

func splitAuthority[T constraints.Byteseq](auth T) (userinfo, host, port Part[T]) {
	hostinfo := auth
	if i := util.LastIndexByte(auth, '@'); i >= 0 {
		userinfo = Some(auth[:i])
		hostinfo = auth[i+1:]
	}
	host = Some(hostinfo)
	if i := util.LastIndexByte(hostinfo, ':'); i >= 0 && grammar.IsDigits(hostinfo[i+1:]) {
		host = Some(hostinfo[:i])
		port = Some(hostinfo[i+1:])
	}
	return userinfo, host, port
}

func (r SplitResult[T]) Scheme() Part[T]    { return r.scheme }
func (r SplitResult[T]) Authority() Part[T] { return r.authority }
func (r SplitResult[T]) Path() T            { return r.path }
func (r SplitResult[T]) Query() Part[T]     { return r.query }
func (r SplitResult[T]) Fragment() Part[T]  { return r.fragment }
func (r SplitResult[T]) Userinfo() Part[T]  { return r.userinfo }
func (r SplitResult[T]) Host() Part[T]      { return r.host }
func (r SplitResult[T]) Port() Part[T]      { return r.port }

// URI returns the recomposed URI reference.
// For any input u, Split(u).URI() equals u.
func (r SplitResult[T]) URI() T {
	return T(r.appendTo(make([]byte, 0, r.len())))
}

func (r SplitResult[T]) len() int {
	n := len(r.path)
	for _, p := range [...]Part[T]{r.scheme, r.authority, r.query, r.fragment} {
		if p.Valid {
			n += len(p.Val) + 2
		}
	}
	return n
}

func (r SplitResult[T]) appendTo(b []byte) []byte {
	if r.scheme.Valid {
		b = append(b, r.scheme.Val...)
		b = append(b, ':')
	}
	if r.authority.Valid {
		b = append(b, '/', '/')
		b = append(b, r.authority.Val...)
	}
	b = append(b, r.path...)
	if r.query.Valid {
		b = append(b, '?')
		b = append(b, r.query.Val...)
	}
	if r.fragment.Valid {
		b = append(b, '#')
		b = append(b, r.fragment.Val...)
	}
	return b
}

// RenderTo writes the recomposed URI reference to w.
func (r SplitResult[T]) RenderTo(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	if r.scheme.Valid {
		ioutil.Print(cw, r.scheme.Val, T(schemeDelim))
	}
	if r.authority.Valid {
		ioutil.Print(cw, T(authorityDelim), r.authority.Val)
	}
	ioutil.Print(cw, r.path)
	if r.query.Valid {
		ioutil.Print(cw, T(queryDelim), r.query.Val)
	}
	if r.fragment.Valid {
		ioutil.Print(cw, T(fragmentDelim), r.fragment.Val)
	}
	return errtrace.Wrap2(cw.Result())
}

var (
	schemeDelim    = []byte(":")
	authorityDelim = []byte("//")
	queryDelim     = []byte("?")
	fragmentDelim  = []byte("#")
)

func (r SplitResult[T]) String() string { return string(r.URI()) }

// Format implements fmt.Formatter.
func (r SplitResult[T]) Format(f fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		if verb == 'v' && f.Flag('+') {
			fmt.Fprintf(f, "{scheme: %q, authority: %q, path: %q, query: %q, fragment: %q}",
				r.scheme, r.authority, string(r.path), r.query, r.fragment,
			)
			return
		}
		r.RenderTo(f) //nolint:errcheck
	case 'q':
		fmt.Fprint(f, strconv.Quote(r.String()))
	default:
		fmt.Fprintf(f, "%%!%c(uri.SplitResult=%s)", verb, r.String())
	}
}

// Equal reports whether both results hold the same raw components.
func (r SplitResult[T]) Equal(other SplitResult[T]) bool {
	return partEq(r.scheme, other.scheme) &&
		partEq(r.authority, other.authority) &&
		string(r.path) == string(other.path) &&
		partEq(r.query, other.query) &&
		partEq(r.fragment, other.fragment)
}

func partEq[T constraints.Byteseq](a, b Part[T]) bool {
	return a.Valid == b.Valid && string(a.Val) == string(b.Val)
}

// MarshalText implements [encoding.TextMarshaler].
func (r SplitResult[T]) MarshalText() ([]byte, error) {
	return []byte(r.URI()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (r *SplitResult[T]) UnmarshalText(text []byte) error {
	*r = Split(T(append([]byte(nil), text...)))
	return nil
}

// IsURI reports whether the reference has a scheme.
func (r SplitResult[T]) IsURI() bool { return r.scheme.Valid }

// IsAbsURI reports whether the reference is an absolute URI: it has a scheme and no fragment.
func (r SplitResult[T]) IsAbsURI() bool { return r.scheme.Valid && !r.fragment.Valid }

// IsRelRef reports whether the reference is a relative reference.
func (r SplitResult[T]) IsRelRef() bool { return !r.scheme.Valid }

// IsNetPath reports whether the reference is a network-path reference ("//host/path").
func (r SplitResult[T]) IsNetPath() bool { return !r.scheme.Valid && r.authority.Valid }

// IsAbsPath reports whether the reference is an absolute-path reference ("/path").
func (r SplitResult[T]) IsAbsPath() bool {
	return !r.scheme.Valid && !r.authority.Valid && util.HasPrefix(r.path, "/")
}

// IsRelPath reports whether the reference is a relative-path reference ("path").
func (r SplitResult[T]) IsRelPath() bool {
	return !r.scheme.Valid && !r.authority.Valid && !util.HasPrefix(r.path, "/")
}

// IsSameDoc reports whether the reference is a same-document reference ("#fragment" or empty).
func (r SplitResult[T]) IsSameDoc() bool {
	return !r.scheme.Valid && !r.authority.Valid && len(r.path) == 0 && !r.query.Valid
}

// GetScheme returns the lower-cased scheme or def if the scheme is absent.
func (r SplitResult[T]) GetScheme(def T) T {
	if !r.scheme.Valid {
		return def
	}
	return util.LCase(r.scheme.Val)
}

// GetUserinfo returns the decoded userinfo.
func (r SplitResult[T]) GetUserinfo(opts ...Option) (Part[T], error) {
	return errtrace.Wrap2(mapPart(r.userinfo, func(v T) (T, error) { return errtrace.Wrap2(Decode(v, opts...)) }))
}

// GetHost returns the decoded host.
// Bracketed IPv6 literals and dotted IPv4 addresses are parsed into addresses,
// registered names are decoded, lower-cased and converted to their Unicode form.
// An absent host gives an absent [Host].
//
// Unbalanced brackets, IPvFuture literals and malformed IP literals fail with [ErrInvalidHost].
func (r SplitResult[T]) GetHost(opts ...Option) (Host[T], error) {
	if !r.host.Valid {
		return Host[T]{}, nil
	}
	return errtrace.Wrap2(parseHost(r.host.Val, opts))
}

// GetPort returns the port number or def if the port is absent or empty.
func (r SplitResult[T]) GetPort(def int) (int, error) {
	if r.port.IsEmpty() {
		return def, nil
	}
	port, err := strconv.ParseUint(string(r.port.Val), 10, 16)
	if err != nil {
		return def, errtrace.Wrap(newInvalidPortErr(err))
	}
	return int(port), nil
}

// GetPath returns the path with dot-segments removed and percent-decoded.
func (r SplitResult[T]) GetPath(opts ...Option) (T, error) {
	return errtrace.Wrap2(Decode(RemoveDotSegments(r.path), opts...))
}

// GetQuery returns the decoded query.
func (r SplitResult[T]) GetQuery(opts ...Option) (Part[T], error) {
	return errtrace.Wrap2(mapPart(r.query, func(v T) (T, error) { return errtrace.Wrap2(Decode(v, opts...)) }))
}

// GetQueryList parses the query into the ordered list of key/value pairs.
// An absent query gives an empty list.
func (r SplitResult[T]) GetQueryList(opts ...Option) (QueryList[T], error) {
	if !r.query.Valid {
		return QueryList[T]{}, nil
	}
	return errtrace.Wrap2(ParseQuery(r.query.Val, opts...))
}

// GetQueryDict parses the query and groups the values by key.
func (r SplitResult[T]) GetQueryDict(opts ...Option) (*QueryDict[T], error) {
	l, err := r.GetQueryList(opts...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return l.Dict(), nil
}

// GetFragment returns the decoded fragment.
func (r SplitResult[T]) GetFragment(opts ...Option) (Part[T], error) {
	return errtrace.Wrap2(mapPart(r.fragment, func(v T) (T, error) { return errtrace.Wrap2(Decode(v, opts...)) }))
}
