package uri

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/util"
)

// DefragResult holds a URI with its fragment stripped off.
type DefragResult[T constraints.Byteseq] struct {
	uri      T
	fragment Part[T]
}

// Defrag removes the fragment from the URI.
func Defrag[T constraints.Byteseq](uri T) DefragResult[T] {
	if i := util.IndexByte(uri, '#'); i >= 0 {
		return DefragResult[T]{uri: uri[:i], fragment: Some(uri[i+1:])}
	}
	return DefragResult[T]{uri: uri}
}

// Base returns the URI without the fragment.
func (r DefragResult[T]) Base() T { return r.uri }

// Fragment returns the raw fragment.
func (r DefragResult[T]) Fragment() Part[T] { return r.fragment }

// URI returns the recombined URI.
func (r DefragResult[T]) URI() T {
	if !r.fragment.Valid {
		return r.uri
	}
	return util.Concat(r.uri, T(fragmentDelim), r.fragment.Val)
}

func (r DefragResult[T]) String() string { return string(r.URI()) }

// GetFragment returns the decoded fragment.
// The default error policy is [Replace].
func (r DefragResult[T]) GetFragment(opts ...Option) (Part[T], error) {
	opts = append([]Option{Replace}, opts...)
	return errtrace.Wrap2(mapPart(r.fragment, func(v T) (T, error) { return errtrace.Wrap2(Decode(v, opts...)) }))
}
