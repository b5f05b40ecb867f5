package uri

import "github.com/ghettovoice/uritools/internal/grammar"

// RFC 3986 section 2 character classes.
const (
	GenDelims  = grammar.GenDelims
	SubDelims  = grammar.SubDelims
	Reserved   = grammar.Reserved
	Unreserved = grammar.Unreserved
)

// IsUnreserved reports whether c is an unreserved character.
func IsUnreserved(c byte) bool { return grammar.IsUnreserved(c) }

// IsReserved reports whether c is a reserved character.
func IsReserved(c byte) bool { return grammar.IsReserved(c) }

// IsGenDelim reports whether c is a generic delimiter.
func IsGenDelim(c byte) bool { return grammar.IsGenDelim(c) }

// IsSubDelim reports whether c is a sub-component delimiter.
func IsSubDelim(c byte) bool { return grammar.IsSubDelim(c) }
