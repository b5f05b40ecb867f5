package uri

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/errorutil"
	"github.com/ghettovoice/uritools/internal/grammar"
	"github.com/ghettovoice/uritools/internal/util"
)

// AuthorityParts is a structured authority accepted by [WithAuthority].
// A nil field is an absent subcomponent.
type AuthorityParts struct {
	Userinfo any
	Host     any
	Port     any
}

type composeOption func(opts *ComposeOptions)

func (fn composeOption) ApplyCompose(opts *ComposeOptions) { fn(opts) }

// WithScheme sets the scheme. An empty scheme is omitted.
func WithScheme(scheme string) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.scheme = &scheme })
}

// WithAuthority sets the authority.
// It accepts a string or []byte which is split into userinfo, host and port,
// an [AuthorityParts] value or a []any with exactly three items (userinfo, host, port).
// [WithUserinfo], [WithHost] and [WithPort] override the respective subcomponents.
func WithAuthority(authority any) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.authority = authority })
}

// WithUserinfo sets the userinfo.
func WithUserinfo(userinfo string) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.userinfo = &userinfo })
}

// WithHost sets the host.
// It accepts a string, []byte, [netip.Addr], [net.IP] or a [Host].
// Bracketed text is validated as an IPv6 literal, other text is IDNA encoded.
func WithHost(host any) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.host = host })
}

// WithPort sets the port. It accepts an integer, a string or []byte of digits.
// An empty port is kept as a bare ":".
func WithPort(port any) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.port = port })
}

// WithPath sets the path.
func WithPath(path string) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.path = path })
}

// WithQuery sets the query.
// A string or []byte is percent-encoded keeping "=&;@," as is.
// A [QueryList], []QueryItem, *[QueryDict], [url.Values], [][2]string or a map
// with string keys is form-encoded, map keys are written in sorted order.
// Values of pairs and maps may be nil (bare key), text, numbers, booleans or slices of those.
func WithQuery(query any) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.query = query })
}

// WithFragment sets the fragment.
func WithFragment(fragment string) ComposeOption {
	return composeOption(func(opts *ComposeOptions) { opts.fragment = &fragment })
}

const (
	userinfoSafe = ":"
	pathSafe     = "/:@+,"
	querySafe    = "=&;@,"
	fragmentSafe = "@,"
)

// Compose builds a URI reference from its components, validating and
// percent-encoding each one. A component is present iff its option is passed,
// an authority is present iff any of userinfo, host or port is present.
//
// Possible errors: [ErrInvalidScheme], [ErrInvalidAuthorityType], [ErrInvalidAuthorityLength],
// [ErrInvalidHost], [ErrInvalidPort], [ErrInvalidPath], [ErrInvalidQueryType],
// [ErrEncoding], [ErrIDNA].
func Compose(opts ...ComposeOption) (string, error) {
	o := &ComposeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.ApplyCompose(o)
		}
	}
	r, err := o.compose()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return r.URI(), nil
}

func (o *ComposeOptions) compose() (SplitResult[string], error) {
	scheme, err := composeScheme(o.scheme)
	if err != nil {
		return SplitResult[string]{}, errtrace.Wrap(err)
	}

	userinfo, host, port, err := authorityParts(o.authority)
	if err != nil {
		return SplitResult[string]{}, errtrace.Wrap(err)
	}
	if o.userinfo != nil {
		userinfo = *o.userinfo
	}
	if o.host != nil {
		host = o.host
	}
	if o.port != nil {
		port = o.port
	}
	authority, err := composeAuthority(userinfo, host, port, o.Codec)
	if err != nil {
		return SplitResult[string]{}, errtrace.Wrap(err)
	}

	path, err := Encode(o.path, pathSafe, o.Codec...)
	if err != nil {
		return SplitResult[string]{}, errtrace.Wrap(err)
	}
	if authority.Valid {
		if path != "" && path[0] != '/' {
			return SplitResult[string]{}, errtrace.Wrap(newInvalidPathErr("path %q must be empty or begin with \"/\" with authority", path))
		}
	} else {
		if strings.HasPrefix(path, "//") {
			return SplitResult[string]{}, errtrace.Wrap(newInvalidPathErr("path %q must not begin with \"//\" without authority", path))
		}
		if !scheme.Valid && !strings.HasPrefix(path, "/") {
			if seg, _, _ := strings.Cut(path, "/"); strings.IndexByte(seg, ':') >= 0 {
				path = "/" + path
			}
		}
	}

	query, err := composeQuery(o.query, o.Codec)
	if err != nil {
		return SplitResult[string]{}, errtrace.Wrap(err)
	}

	var fragment Part[string]
	if o.fragment != nil {
		v, err := Encode(*o.fragment, fragmentSafe, o.Codec...)
		if err != nil {
			return SplitResult[string]{}, errtrace.Wrap(err)
		}
		fragment = Some(v)
	}

	return NewSplitResult(scheme, authority, path, query, fragment), nil
}

func composeScheme(scheme *string) (Part[string], error) {
	if scheme == nil || *scheme == "" {
		return Part[string]{}, nil
	}
	if !grammar.IsScheme(*scheme) {
		return Part[string]{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidScheme, "%q", *scheme))
	}
	return Some(util.LCase(*scheme)), nil
}

func partToAny[T constraints.Byteseq](p Part[T]) any {
	if !p.Valid {
		return nil
	}
	return string(p.Val)
}

func authorityParts(authority any) (userinfo, host, port any, err error) {
	switch v := authority.(type) {
	case nil:
		return nil, nil, nil, nil
	case string:
		u, h, p := splitAuthority(v)
		return partToAny(u), partToAny(h), partToAny(p), nil
	case []byte:
		u, h, p := splitAuthority(v)
		return partToAny(u), partToAny(h), partToAny(p), nil
	case Part[string]:
		if !v.Valid {
			return nil, nil, nil, nil
		}
		return errtrace.Wrap4(authorityParts(v.Val))
	case AuthorityParts:
		return v.Userinfo, v.Host, v.Port, nil
	case *AuthorityParts:
		if v == nil {
			return nil, nil, nil, nil
		}
		return v.Userinfo, v.Host, v.Port, nil
	case []any:
		if len(v) != 3 {
			return nil, nil, nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidAuthorityLength, "got %d items", len(v)))
		}
		return v[0], v[1], v[2], nil
	case []string:
		if len(v) != 3 {
			return nil, nil, nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidAuthorityLength, "got %d items", len(v)))
		}
		return v[0], v[1], v[2], nil
	default:
		return nil, nil, nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidAuthorityType, "%T", authority))
	}
}

func composeAuthority(userinfo, host, port any, opts []Option) (Part[string], error) {
	if host, ok := host.(Host[string]); ok && !host.IsValid() {
		return composeAuthority(userinfo, nil, port, opts)
	}
	if host, ok := host.(Host[[]byte]); ok && !host.IsValid() {
		return composeAuthority(userinfo, nil, port, opts)
	}
	if userinfo == nil && host == nil && port == nil {
		return Part[string]{}, nil
	}

	var sb strings.Builder
	if userinfo != nil {
		s, err := textValue(userinfo)
		if err != nil {
			return Part[string]{}, errtrace.Wrap(err)
		}
		if s.Valid {
			v, err := Encode(s.Val, userinfoSafe, opts...)
			if err != nil {
				return Part[string]{}, errtrace.Wrap(err)
			}
			sb.WriteString(v)
			sb.WriteByte('@')
		}
	}
	if host != nil {
		h, err := composeHost(host, opts)
		if err != nil {
			return Part[string]{}, errtrace.Wrap(err)
		}
		sb.WriteString(h)
	}
	if port != nil {
		p, err := composePort(port)
		if err != nil {
			return Part[string]{}, errtrace.Wrap(err)
		}
		if p.Valid {
			sb.WriteByte(':')
			sb.WriteString(p.Val)
		}
	}
	return Some(sb.String()), nil
}

func textValue(v any) (Part[string], error) {
	switch v := v.(type) {
	case nil:
		return Part[string]{}, nil
	case string:
		return Some(v), nil
	case []byte:
		return Some(string(v)), nil
	case Part[string]:
		return v, nil
	case Part[[]byte]:
		return Part[string]{Val: string(v.Val), Valid: v.Valid}, nil
	case fmt.Stringer:
		return Some(v.String()), nil
	default:
		return Part[string]{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("unexpected %T value", v))
	}
}

func composeHost(host any, opts []Option) (string, error) {
	switch v := host.(type) {
	case netip.Addr:
		h := AddrHost[string](v)
		if !h.IsValid() {
			return "", errtrace.Wrap(newInvalidHostErr("invalid address"))
		}
		return h.Literal(), nil
	case net.IP:
		addr, ok := netip.AddrFromSlice(v)
		if !ok {
			return "", errtrace.Wrap(newInvalidHostErr("invalid address %v", v))
		}
		if v.To4() != nil {
			addr = addr.Unmap()
		}
		return errtrace.Wrap2(composeHost(addr, opts))
	case Host[string]:
		if v.Kind() == HostKindName {
			return errtrace.Wrap2(composeHostName(v.Name(), opts))
		}
		return v.Literal(), nil
	case Host[[]byte]:
		if v.Kind() == HostKindName {
			return errtrace.Wrap2(composeHostName(string(v.Name()), opts))
		}
		return v.Literal(), nil
	case string:
		return errtrace.Wrap2(composeHostName(v, opts))
	case []byte:
		return errtrace.Wrap2(composeHostName(string(v), opts))
	case Part[string]:
		if !v.Valid {
			return "", nil
		}
		return errtrace.Wrap2(composeHostName(v.Val, opts))
	default:
		return "", errtrace.Wrap(newInvalidHostErr("unexpected host type %T", host))
	}
}

func composeHostName(host string, opts []Option) (string, error) {
	if host == "" {
		return "", nil
	}
	if host[0] == '[' && host[len(host)-1] == ']' && len(host) >= 2 {
		addr, err := parseIPLiteral(host[1 : len(host)-1])
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		return "[" + addr.String() + "]", nil
	}
	// IPv6 addresses without brackets as given by Host.String
	if addr, err := parseIPLiteral(host); err == nil {
		return "[" + addr.String() + "]", nil
	}
	return errtrace.Wrap2(IDNEncode(host, opts...))
}

func composePort(port any) (Part[string], error) {
	switch v := port.(type) {
	case nil:
		return Part[string]{}, nil
	case string:
		if !grammar.IsPort(v) {
			return Part[string]{}, errtrace.Wrap(newInvalidPortErr("%q", v))
		}
		return Some(v), nil
	case []byte:
		return errtrace.Wrap2(composePort(string(v)))
	case Part[string]:
		if !v.Valid {
			return Part[string]{}, nil
		}
		return errtrace.Wrap2(composePort(v.Val))
	case int:
		return errtrace.Wrap2(intPort(v))
	case int8:
		return errtrace.Wrap2(intPort(v))
	case int16:
		return errtrace.Wrap2(intPort(v))
	case int32:
		return errtrace.Wrap2(intPort(v))
	case int64:
		return errtrace.Wrap2(intPort(v))
	case uint:
		return errtrace.Wrap2(intPort(v))
	case uint8:
		return errtrace.Wrap2(intPort(v))
	case uint16:
		return errtrace.Wrap2(intPort(v))
	case uint32:
		return errtrace.Wrap2(intPort(v))
	case uint64:
		return errtrace.Wrap2(intPort(v))
	default:
		return Part[string]{}, errtrace.Wrap(newInvalidPortErr("unexpected port type %T", port))
	}
}

func intPort[T constraints.Integer](v T) (Part[string], error) {
	if v < 0 {
		return Part[string]{}, errtrace.Wrap(newInvalidPortErr("%d", v))
	}
	return Some(fmt.Sprintf("%d", v)), nil
}

func composeQuery(query any, opts []Option) (Part[string], error) {
	switch v := query.(type) {
	case nil:
		return Part[string]{}, nil
	case string:
		return errtrace.Wrap2(mapPart(Some(v), func(s string) (string, error) {
			return errtrace.Wrap2(Encode(s, querySafe, opts...))
		}))
	case []byte:
		return errtrace.Wrap2(composeQuery(string(v), opts))
	case Part[string]:
		if !v.Valid {
			return Part[string]{}, nil
		}
		return errtrace.Wrap2(composeQuery(v.Val, opts))
	case QueryList[string]:
		return errtrace.Wrap2(v.Encode(opts...))
	case []QueryItem[string]:
		return errtrace.Wrap2(QueryList[string](v).Encode(opts...))
	case *QueryDict[string]:
		return errtrace.Wrap2(v.List().Encode(opts...))
	case [][2]string:
		l := make(QueryList[string], 0, len(v))
		for _, kv := range v {
			l = append(l, QueryItem[string]{Key: kv[0], Value: Some(kv[1])})
		}
		return errtrace.Wrap2(l.Encode(opts...))
	case url.Values:
		return errtrace.Wrap2(composeQuery(map[string][]string(v), opts))
	case map[string][]string:
		var l QueryList[string]
		for _, k := range sortedKeys(v) {
			for _, s := range v[k] {
				l = append(l, QueryItem[string]{Key: k, Value: Some(s)})
			}
		}
		return errtrace.Wrap2(l.Encode(opts...))
	case map[string]string:
		var l QueryList[string]
		for _, k := range sortedKeys(v) {
			l = append(l, QueryItem[string]{Key: k, Value: Some(v[k])})
		}
		return errtrace.Wrap2(l.Encode(opts...))
	case map[string]any:
		var l QueryList[string]
		for _, k := range sortedKeys(v) {
			vals, err := queryValues(v[k])
			if err != nil {
				return Part[string]{}, errtrace.Wrap(err)
			}
			for _, val := range vals {
				l = append(l, QueryItem[string]{Key: k, Value: val})
			}
		}
		return errtrace.Wrap2(l.Encode(opts...))
	default:
		return Part[string]{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidQueryType, "%T", query))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// queryValues converts a map value to query values, slices give one value per item.
func queryValues(v any) ([]Part[string], error) {
	switch v := v.(type) {
	case nil:
		return []Part[string]{{}}, nil
	case string:
		return []Part[string]{Some(v)}, nil
	case []byte:
		return []Part[string]{Some(string(v))}, nil
	case Part[string]:
		return []Part[string]{v}, nil
	case bool:
		return []Part[string]{Some(strconv.FormatBool(v))}, nil
	case []string:
		out := make([]Part[string], 0, len(v))
		for _, s := range v {
			out = append(out, Some(s))
		}
		return out, nil
	case []any:
		out := make([]Part[string], 0, len(v))
		for _, item := range v {
			vals, err := queryValues(item)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			out = append(out, vals...)
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []Part[string]{Some(strconv.FormatInt(rv.Int(), 10))}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []Part[string]{Some(strconv.FormatUint(rv.Uint(), 10))}, nil
	case reflect.Float32, reflect.Float64:
		return []Part[string]{Some(strconv.FormatFloat(rv.Float(), 'g', -1, 64))}, nil
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidQueryType, "unexpected value type %T", v))
	}
}
