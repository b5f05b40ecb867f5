package uri

//go:generate go tool mockgen -destination ../internal/testutil/idnamock/idna.go -package idnamock . IDNA

import (
	"braces.dev/errtrace"
	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/util"
)

// IDNA converts internationalized domain names to and from their ASCII compatible form.
// [*idna.Profile] implements it.
type IDNA interface {
	ToASCII(s string) (string, error)
	ToUnicode(s string) (string, error)
}

// DefaultIDNA is the lookup profile of RFC 5891 without the STD3 host name restriction.
// Labels and the whole name are length checked.
var DefaultIDNA IDNA = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.VerifyDNSLength(true),
	idna.Transitional(false),
)

// IDNEncode converts the domain name to its ASCII compatible form.
// Byte input is transcoded from the charset first and the result is returned as bytes.
func IDNEncode[T constraints.Byteseq](domain T, opts ...Option) (T, error) {
	if len(domain) == 0 {
		return domain, nil
	}

	o := newCodecOptions(Strict, opts)
	return errtrace.Wrap2(idnConvert(domain, o, func(s string) (string, error) {
		return errtrace.Wrap2(toASCII(s, o.IDNA))
	}))
}

// IDNDecode converts the domain name to its Unicode form.
// The name is passed through the ASCII conversion first, so the result is
// the lookup-mapped (lower-cased, normalized) Unicode form of any valid input.
func IDNDecode[T constraints.Byteseq](domain T, opts ...Option) (T, error) {
	if len(domain) == 0 {
		return domain, nil
	}

	o := newCodecOptions(Strict, opts)
	return errtrace.Wrap2(idnConvert(domain, o, func(s string) (string, error) {
		a, err := toASCII(s, o.IDNA)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		u, err := o.IDNA.ToUnicode(a)
		if err != nil {
			return "", errtrace.Wrap(newIDNAErr(err))
		}
		return u, nil
	}))
}

func toASCII(s string, p IDNA) (string, error) {
	a, err := p.ToASCII(s)
	if err != nil {
		return "", errtrace.Wrap(newIDNAErr(err))
	}
	if _, ok := dns.IsDomainName(a); !ok {
		return "", errtrace.Wrap(newIDNAErr("%q is not a valid domain name", a))
	}
	return a, nil
}

func idnConvert[T constraints.Byteseq](domain T, o *CodecOptions, fn func(string) (string, error)) (T, error) {
	if !util.IsBytes[T]() {
		out, err := fn(string(domain))
		if err != nil {
			return domain[:0], errtrace.Wrap(err)
		}
		return T(out), nil
	}

	s, err := o.fromCharset([]byte(domain))
	if err != nil {
		return domain[:0], errtrace.Wrap(err)
	}
	out, err := fn(s)
	if err != nil {
		return domain[:0], errtrace.Wrap(err)
	}
	b, err := o.toCharset(out)
	if err != nil {
		return domain[:0], errtrace.Wrap(err)
	}
	return T(b), nil
}
