// Package grammar implements the RFC 3986 character classes and
// the ABNF productions needed to validate URI components.
package grammar

import (
	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/uritools/internal/constraints"
)

func init() {
	abnf.EnableNodeCache(1024)
}

// RFC 3986 section 2 character classes.
const (
	GenDelims  = ":/?#[]@"
	SubDelims  = "!$&'()*+,;="
	Reserved   = GenDelims + SubDelims
	Unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"abcdefghijklmnopqrstuvwxyz" +
		"0123456789" +
		"-._~"
)

type charClass [256]bool

func newCharClass(chars string) *charClass {
	var cc charClass
	for i := 0; i < len(chars); i++ {
		cc[chars[i]] = true
	}
	return &cc
}

var (
	unreservedChars = newCharClass(Unreserved)
	reservedChars   = newCharClass(Reserved)
	genDelimChars   = newCharClass(GenDelims)
	subDelimChars   = newCharClass(SubDelims)
)

// IsUnreserved checks on unreserved rule.
func IsUnreserved(c byte) bool { return unreservedChars[c] }

// IsReserved checks on reserved rule.
func IsReserved(c byte) bool { return reservedChars[c] }

// IsGenDelim checks on gen-delims rule.
func IsGenDelim(c byte) bool { return genDelimChars[c] }

// IsSubDelim checks on sub-delims rule.
func IsSubDelim(c byte) bool { return subDelimChars[c] }

// UnreservedTable returns a copy of the unreserved class as a byte lookup table.
func UnreservedTable() [256]bool { return *unreservedChars }

func IsHexDigit(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func UnHex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

const UpperHex = "0123456789ABCDEF"

func IsDigits[T constraints.Byteseq](s T) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func match[T constraints.Byteseq](op abnf.Operator, s T) bool {
	ns := abnf.NewNodes()
	defer ns.Free()

	if err := op([]byte(s), 0, ns); err != nil {
		return false
	}
	return ns.Best().Len() == len(s)
}

// IsScheme reports whether s matches the scheme production.
func IsScheme[T constraints.Byteseq](s T) bool {
	if len(s) == 0 {
		return false
	}
	return match(scheme, s)
}

// IsPort reports whether s matches the port production (empty port included).
func IsPort[T constraints.Byteseq](s T) bool {
	if len(s) == 0 {
		return true
	}
	return match(port, s)
}

// IsIPvFuture reports whether s (without brackets) matches the IPvFuture production.
func IsIPvFuture[T constraints.Byteseq](s T) bool {
	if len(s) == 0 || (s[0] != 'v' && s[0] != 'V') {
		return false
	}
	return match(ipvFuture, s)
}

// IsIPv4Address reports whether s matches the IPv4address production.
func IsIPv4Address[T constraints.Byteseq](s T) bool {
	if len(s) < 7 {
		return false
	}
	return match(ipv4Address, s)
}
