package uri

import (
	"net/netip"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/grammar"
	"github.com/ghettovoice/uritools/internal/util"
)

// HostKind tells which kind of value a [Host] holds.
type HostKind uint8

const (
	HostKindNone HostKind = iota
	HostKindName
	HostKindIPv4
	HostKindIPv6
)

func (k HostKind) String() string {
	switch k {
	case HostKindName:
		return "name"
	case HostKindIPv4:
		return "ipv4"
	case HostKindIPv6:
		return "ipv6"
	default:
		return "none"
	}
}

// Host is a decoded URI host: a registered name or an IP address.
// The zero value is an absent host.
type Host[T constraints.Byteseq] struct {
	kind HostKind
	name T
	addr netip.Addr
}

// NameHost returns a host holding the registered name.
func NameHost[T constraints.Byteseq](name T) Host[T] {
	return Host[T]{kind: HostKindName, name: name}
}

// AddrHost returns a host holding the IP address.
// An invalid address gives an absent host.
func AddrHost[T constraints.Byteseq](addr netip.Addr) Host[T] {
	switch {
	case addr.Is4():
		return Host[T]{kind: HostKindIPv4, addr: addr}
	case addr.Is6():
		return Host[T]{kind: HostKindIPv6, addr: addr}
	default:
		return Host[T]{}
	}
}

func (h Host[T]) Kind() HostKind { return h.kind }

func (h Host[T]) IsValid() bool { return h.kind != HostKindNone }

// Name returns the registered name or the empty value for address hosts.
func (h Host[T]) Name() T { return h.name }

// Addr returns the IP address or the zero address for registered names.
func (h Host[T]) Addr() netip.Addr { return h.addr }

// String returns the name or the textual address without brackets.
func (h Host[T]) String() string {
	switch h.kind {
	case HostKindName:
		return string(h.name)
	case HostKindIPv4, HostKindIPv6:
		return h.addr.String()
	default:
		return ""
	}
}

// Literal returns the host as it appears in a URI authority, IPv6 addresses are bracketed.
func (h Host[T]) Literal() string {
	if h.kind == HostKindIPv6 {
		return "[" + h.addr.String() + "]"
	}
	return h.String()
}

// Equal reports whether both hosts hold the same value.
func (h Host[T]) Equal(other Host[T]) bool {
	return h.kind == other.kind && string(h.name) == string(other.name) && h.addr == other.addr
}

// parseIPLiteral parses the content of a bracketed host.
func parseIPLiteral(s string) (netip.Addr, error) {
	if s != "" && (s[0] == 'v' || s[0] == 'V') {
		if grammar.IsIPvFuture(util.LCase(s[:1]) + s[1:]) {
			return netip.Addr{}, errtrace.Wrap(newInvalidHostErr("address mechanism %q is not supported", s))
		}
		return netip.Addr{}, errtrace.Wrap(newInvalidHostErr("malformed IPvFuture literal %q", s))
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, errtrace.Wrap(newInvalidHostErr(err))
	}
	if !addr.Is6() || addr.Zone() != "" {
		return netip.Addr{}, errtrace.Wrap(newInvalidHostErr("%q is not an IPv6 address", s))
	}
	return addr, nil
}

// parseHost classifies the raw host text.
// Names are percent-decoded, lower-cased and converted to the Unicode form.
// Unbracketed text with a colon that is not an IPv6 address is returned as is.
func parseHost[T constraints.Byteseq](host T, opts []Option) (Host[T], error) {
	if len(host) == 0 {
		return NameHost(host), nil
	}

	open, closed := host[0] == '[', host[len(host)-1] == ']'
	switch {
	case open && closed && len(host) >= 2:
		addr, err := parseIPLiteral(string(host[1 : len(host)-1]))
		if err != nil {
			return Host[T]{}, errtrace.Wrap(err)
		}
		return AddrHost[T](addr), nil
	case open || closed:
		return Host[T]{}, errtrace.Wrap(newInvalidHostErr("unbalanced brackets in %q", string(host)))
	}

	if grammar.IsIPv4Address(host) {
		if addr, err := netip.ParseAddr(string(host)); err == nil {
			return AddrHost[T](addr), nil
		}
	}
	if util.IndexByte(host, ':') >= 0 {
		if addr, err := netip.ParseAddr(string(host)); err == nil && addr.Is6() {
			return Host[T]{}, errtrace.Wrap(newInvalidHostErr("unbracketed IPv6 address %q", string(host)))
		}
		// not a domain name, kept verbatim
		return NameHost(host), nil
	}

	name, err := Decode(host, opts...)
	if err != nil {
		return Host[T]{}, errtrace.Wrap(err)
	}
	name, err = IDNDecode(util.LCase(name), opts...)
	if err != nil {
		return Host[T]{}, errtrace.Wrap(err)
	}
	return NameHost(name), nil
}
