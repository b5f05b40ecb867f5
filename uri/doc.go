// Package uri implements the RFC 3986 generic URI syntax: splitting a URI reference
// into its components, composing components back into a URI, resolving references
// against a base URI, normalization, percent-encoding and IDNA conversion.
//
// # Text and bytes
//
// Every entry point is generic over string and []byte types. Text input gives text
// output and byte input gives byte output. Text is transcoded with the charset set by
// [WithCharset] (UTF-8 by default) before percent-encoding, bytes are encoded as is.
//
// # Splitting
//
// [Split] never fails. It keeps the raw percent-encoded components and distinguishes
// absent components from empty ones, so Split(u).URI() always gives u back:
//
//	r := uri.Split("foo://user@example.com:8042/over/there?name=ferret#nose")
//	r.Scheme()   // {foo true}
//	r.Host()     // {example.com true}
//	r.GetPort(0) // 8042, nil
//
// The Get* methods of [SplitResult] decode the components and are the place where
// malformed input is reported, e.g. [SplitResult.GetHost] fails with [ErrInvalidHost]
// on an unbalanced IP literal.
//
// # Composing
//
// [Compose] validates and encodes components given as options:
//
//	s, err := uri.Compose(
//	    uri.WithScheme("HTTP"),
//	    uri.WithHost("ウェブ.例.jp"),
//	    uri.WithPath("/a b"),
//	    uri.WithQuery(map[string]any{"q": "x y", "n": 1}),
//	)
//	// http://xn--gckc5l.xn--fsq.jp/a%20b?n=1&q=x+y
//
// # Resolution and normalization
//
// [Join] and [SplitResult.Resolve] implement RFC 3986 section 5.2, [RemoveDotSegments]
// section 5.2.4. [Normalize] lower-cases the scheme and host, drops default ports,
// removes dot-segments and re-encodes the NFC form of every decoded component.
//
// # Concurrency
//
// All functions are safe for concurrent use. The only shared state is the cache of
// encode tables keyed by the safe characters set.
package uri

//go:generate go tool errtrace -w .
