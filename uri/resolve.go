package uri

import (
	"bytes"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/util"
)

// Resolve resolves the reference against r as the base URI (RFC 3986 section 5.2.2).
// In non-strict mode a reference whose scheme equals the base scheme is treated
// as relative, which is the behavior of many legacy parsers.
func (r SplitResult[T]) Resolve(ref T, strict bool) SplitResult[T] {
	rr := Split(ref)
	scheme, authority, path, query := rr.scheme, rr.authority, rr.path, rr.query

	switch {
	case scheme.Valid && (strict || !r.scheme.Valid || string(util.LCase(scheme.Val)) != string(util.LCase(r.scheme.Val))):
		path = RemoveDotSegments(path)
	case authority.Valid:
		scheme = r.scheme
		path = RemoveDotSegments(path)
	case len(path) == 0:
		scheme, authority, path = r.scheme, r.authority, r.path
		if !query.Valid {
			query = r.query
		}
	case path[0] == '/':
		scheme, authority = r.scheme, r.authority
		path = RemoveDotSegments(path)
	default:
		scheme, authority = r.scheme, r.authority
		path = RemoveDotSegments(r.merge(path))
	}
	return NewSplitResult(scheme, authority, path, query, rr.fragment)
}

// merge implements RFC 3986 section 5.2.3.
func (r SplitResult[T]) merge(path T) T {
	if r.authority.Valid && len(r.path) == 0 {
		return util.Concat(T(slash), path)
	}
	i := util.LastIndexByte(r.path, '/')
	return util.Concat(r.path[:i+1], path)
}

var slash = []byte("/")

// Join resolves the reference against the base URI and returns the target URI.
func Join[T constraints.Byteseq](base, ref T, strict bool) T {
	return Split(base).Resolve(ref, strict).URI()
}

// RemoveDotSegments removes the "." and ".." segments from the path (RFC 3986 section 5.2.4).
// A ".." never climbs above the root of an absolute path, a relative path keeps the
// leading ".." segments that could not be resolved.
func RemoveDotSegments[T constraints.Byteseq](path T) T {
	if len(path) == 0 {
		return path
	}

	src := []byte(path)
	segs := bytes.Split(src, slash)
	out := make([][]byte, 0, len(segs))
	for _, s := range segs {
		switch {
		case string(s) == ".":
		case string(s) != "..":
			out = append(out, s)
		case len(out) == 1 && len(out[0]) == 0:
			// at the root
		case len(out) > 0 && string(out[len(out)-1]) != "..":
			out = out[:len(out)-1]
		default:
			out = append(out, s)
		}
	}
	if last := segs[len(segs)-1]; string(last) == "." || string(last) == ".." {
		out = append(out, nil)
	}
	if len(out) == 1 && len(out[0]) == 0 {
		out = append([][]byte{{'.'}}, out...)
	}
	return T(bytes.Join(out, slash))
}
