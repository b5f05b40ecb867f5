package uri

import (
	"bytes"

	"braces.dev/errtrace"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/grammar"
	"github.com/ghettovoice/uritools/internal/syncutil"
	"github.com/ghettovoice/uritools/internal/util"
)

// encodeTable marks the bytes that are written as is by the percent encoder.
type encodeTable [256]bool

func buildEncodeTable(safe string) *encodeTable {
	tbl := encodeTable(grammar.UnreservedTable())
	for i := 0; i < len(safe); i++ {
		tbl[safe[i]] = true
	}
	return &tbl
}

var encodeTables syncutil.Map[string, *encodeTable]

func getEncodeTable(safe string) *encodeTable {
	return encodeTables.GetOrCompute(safe, buildEncodeTable)
}

func (tbl *encodeTable) appendEncoded(dst, src []byte) []byte {
	for _, c := range src {
		if tbl[c] {
			dst = append(dst, c)
			continue
		}
		dst = append(dst, '%', grammar.UpperHex[c>>4], grammar.UpperHex[c&0xf])
	}
	return dst
}

func isUTF8(cs encoding.Encoding) bool {
	return cs == nil || cs == unicode.UTF8
}

// toCharset transcodes UTF-8 text to the charset bytes.
func (o *CodecOptions) toCharset(s string) ([]byte, error) {
	if isUTF8(o.Charset) {
		if o.Errors == Replace {
			b, _, err := transform.String(unicode.UTF8.NewEncoder(), s)
			return []byte(b), errtrace.Wrap(err)
		}
		if _, _, err := transform.String(encoding.UTF8Validator, s); err != nil {
			return nil, errtrace.Wrap(newEncodingErr(err))
		}
		return []byte(s), nil
	}

	enc := o.Charset.NewEncoder()
	if o.Errors == Replace {
		enc = encoding.ReplaceUnsupported(enc)
	}
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, errtrace.Wrap(newEncodingErr(err))
	}
	return b, nil
}

// fromCharset transcodes the charset bytes to UTF-8 text.
func (o *CodecOptions) fromCharset(b []byte) (string, error) {
	if isUTF8(o.Charset) {
		if o.Errors == Replace {
			s, err := unicode.UTF8.NewDecoder().Bytes(b)
			return string(s), errtrace.Wrap(err)
		}
		if _, _, err := transform.Bytes(encoding.UTF8Validator, b); err != nil {
			return "", errtrace.Wrap(newEncodingErr(err))
		}
		return string(b), nil
	}

	s, err := o.Charset.NewDecoder().Bytes(b)
	if err != nil {
		return "", errtrace.Wrap(newEncodingErr(err))
	}
	return string(s), nil
}

// roundTrip validates charset bytes by decoding and encoding them again.
func (o *CodecOptions) roundTrip(b []byte) ([]byte, error) {
	s, err := o.fromCharset(b)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(o.toCharset(s))
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// Encode percent-encodes s.
// Text input is transcoded to the charset first, byte input is encoded as is.
// Unreserved bytes and the bytes of safe are written unchanged,
// every other byte is replaced by its "%XX" upper case form.
//
// The default error policy is [Strict].
func Encode[T constraints.Byteseq](s T, safe string, opts ...Option) (T, error) {
	if len(s) == 0 {
		return s, nil
	}

	o := newCodecOptions(Strict, opts)
	b, err := encodeBytes(s, safe, o)
	if err != nil {
		return s[:0], errtrace.Wrap(err)
	}
	return errtrace.Wrap2(fromEncoded[T](b, o))
}

// EncodePlus is like [Encode] but encodes space as "+".
func EncodePlus[T constraints.Byteseq](s T, safe string, opts ...Option) (T, error) {
	if len(s) == 0 {
		return s, nil
	}

	o := newCodecOptions(Strict, opts)
	b, err := encodeBytes(s, safe+" ", o)
	if err != nil {
		return s[:0], errtrace.Wrap(err)
	}
	for i := range b {
		if b[i] == ' ' {
			b[i] = '+'
		}
	}
	return errtrace.Wrap2(fromEncoded[T](b, o))
}

func encodeBytes[T constraints.Byteseq](s T, safe string, o *CodecOptions) ([]byte, error) {
	src := []byte(s)
	if !util.IsBytes[T]() {
		var err error
		if src, err = o.toCharset(string(s)); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return getEncodeTable(safe).appendEncoded(make([]byte, 0, len(src)+len(src)/2), src), nil
}

func fromEncoded[T constraints.Byteseq](b []byte, o *CodecOptions) (T, error) {
	if util.IsBytes[T]() || isASCII(b) {
		return T(b), nil
	}
	// non-ASCII safe bytes are left in the charset
	s, err := o.fromCharset(b)
	if err != nil {
		var zero T
		return zero, errtrace.Wrap(err)
	}
	return T(s), nil
}

// unescape appends src to dst replacing every valid "%XX" triplet with the byte it encodes.
// Malformed triplets are copied verbatim.
// In the safe mode the control bytes (< 0x20) stay encoded with upper case hex digits.
func unescape(dst, src []byte, safe bool) []byte {
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '%' || i+2 >= len(src) {
			dst = append(dst, c)
			continue
		}
		hi, lo := src[i+1], src[i+2]
		if !grammar.IsHexDigit(hi) || !grammar.IsHexDigit(lo) {
			dst = append(dst, c)
			continue
		}
		v := grammar.UnHex(hi)<<4 | grammar.UnHex(lo)
		if safe && v < 0x20 {
			dst = append(dst, '%', grammar.UpperHex[v>>4], grammar.UpperHex[v&0xf])
		} else {
			dst = append(dst, v)
		}
		i += 2
	}
	return dst
}

func decode[T constraints.Byteseq](s T, plus, safe bool, o *CodecOptions) (T, error) {
	src := []byte(s)
	if plus {
		src = bytes.ReplaceAll(src, []byte{'+'}, []byte{' '})
	}
	b := unescape(make([]byte, 0, len(src)), src, safe)

	if util.IsBytes[T]() {
		b, err := o.roundTrip(b)
		if err != nil {
			return s[:0], errtrace.Wrap(err)
		}
		return T(b), nil
	}

	out, err := o.fromCharset(b)
	if err != nil {
		return s[:0], errtrace.Wrap(err)
	}
	return T(out), nil
}

// Decode percent-decodes s.
// Every "%XX" triplet with two hex digits is replaced by the byte it encodes,
// malformed triplets are left as is.
// The decoded bytes are transcoded from the charset for text input and
// validated against the charset for byte input.
//
// The default error policy is [Strict].
func Decode[T constraints.Byteseq](s T, opts ...Option) (T, error) {
	if len(s) == 0 {
		return s, nil
	}
	return errtrace.Wrap2(decode(s, false, false, newCodecOptions(Strict, opts)))
}

// DecodePlus is like [Decode] but first replaces every "+" with space.
func DecodePlus[T constraints.Byteseq](s T, opts ...Option) (T, error) {
	if len(s) == 0 {
		return s, nil
	}
	return errtrace.Wrap2(decode(s, true, false, newCodecOptions(Strict, opts)))
}

// DecodeSafe is like [Decode] but keeps the control bytes (below 0x20) percent-encoded.
//
// The default error policy is [Replace].
func DecodeSafe[T constraints.Byteseq](s T, opts ...Option) (T, error) {
	if len(s) == 0 {
		return s, nil
	}
	return errtrace.Wrap2(decode(s, false, true, newCodecOptions(Replace, opts)))
}

// DecodeSafePlus is like [DecodeSafe] but first replaces every "+" with space.
func DecodeSafePlus[T constraints.Byteseq](s T, opts ...Option) (T, error) {
	if len(s) == 0 {
		return s, nil
	}
	return errtrace.Wrap2(decode(s, true, true, newCodecOptions(Replace, opts)))
}
