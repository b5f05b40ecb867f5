package uri

import (
	"strings"

	"braces.dev/errtrace"
	"github.com/miekg/dns"
	"golang.org/x/text/unicode/norm"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/util"
)

var defaultPorts = map[string]int{
	"ftp":      21,
	"gopher":   70,
	"http":     80,
	"https":    443,
	"itms":     80,
	"news":     119,
	"nntp":     119,
	"prospero": 191,
	"snews":    563,
	"snntp":    563,
	"telnet":   23,
	"ws":       80,
	"wss":      443,
}

// DefaultPort returns the well-known port of the scheme.
func DefaultPort(scheme string) (int, bool) {
	p, ok := defaultPorts[strings.ToLower(scheme)]
	return p, ok
}

// Normalize returns the normalized form of the URI reference:
//   - scheme and host names are lower-cased, host names are IDNA encoded
//     and lose a trailing root label dot;
//   - the port is dropped if it is empty or the default one of the scheme;
//   - dot-segments are removed from the path, an empty path becomes "/";
//   - userinfo, path, query and fragment are decoded, normalized to Unicode NFC
//     and encoded again, so percent-encodings get the minimal upper case form;
//   - an empty query is dropped.
//
// Byte input is transcoded from the charset first.
// It fails with the same errors as [Compose] and the Get* methods of [SplitResult].
func Normalize[T constraints.Byteseq](uri T, opts ...Option) (T, error) {
	var (
		s   string
		err error
	)
	if util.IsBytes[T]() {
		if s, err = newCodecOptions(Strict, opts).fromCharset([]byte(uri)); err != nil {
			return uri[:0], errtrace.Wrap(err)
		}
	} else {
		s = string(uri)
	}

	out, err := normalize(s, opts)
	if err != nil {
		return uri[:0], errtrace.Wrap(err)
	}
	return T(out), nil
}

func nfc[T constraints.Byteseq](p Part[T]) Part[T] {
	if p.IsEmpty() {
		return p
	}
	if util.IsBytes[T]() {
		return Some(T(norm.NFC.Bytes([]byte(p.Val))))
	}
	return Some(T(norm.NFC.String(string(p.Val))))
}

func normalize(uri string, opts []Option) (string, error) {
	r := Split(uri)
	o := &ComposeOptions{Codec: opts}

	if r.scheme.Valid {
		scheme := r.GetScheme("")
		o.scheme = &scheme
	}

	userinfo, err := r.GetUserinfo(opts...)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if userinfo.Valid {
		v := nfc(userinfo).Val
		o.userinfo = &v
	}

	host, err := r.GetHost(opts...)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if name := host.Name(); host.Kind() == HostKindName && dns.IsFqdn(name) {
		host = NameHost(name[:len(name)-1])
	}
	if host.IsValid() {
		o.host = host
	}

	if !r.port.IsEmpty() {
		port, err := r.GetPort(0)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		if def, ok := DefaultPort(r.GetScheme("")); !ok || def != port {
			o.port = port
		}
	}

	path, err := r.GetPath(opts...)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if path == "" {
		path = "/"
	}
	o.path = nfc(Some(path)).Val

	if !r.query.IsEmpty() {
		l, err := ParseQuery(r.query.Val, opts...)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		for i := range l {
			l[i].Key = nfc(Some(l[i].Key)).Val
			l[i].Value = nfc(l[i].Value)
		}
		o.query = l
	}

	fragment, err := r.GetFragment(opts...)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if fragment.Valid {
		v := nfc(fragment).Val
		o.fragment = &v
	}

	res, err := o.compose()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return res.URI(), nil
}
