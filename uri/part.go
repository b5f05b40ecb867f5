package uri

import "github.com/ghettovoice/uritools/internal/constraints"

// Part is an optional URI component.
// The zero value is an absent component, which is distinct from a present but empty one.
type Part[T constraints.Byteseq] struct {
	Val   T
	Valid bool
}

// Some returns a present component holding v.
func Some[T constraints.Byteseq](v T) Part[T] { return Part[T]{Val: v, Valid: true} }

// None returns an absent component.
func None[T constraints.Byteseq]() Part[T] { return Part[T]{} }

// Get returns the component value or def if the component is absent.
func (p Part[T]) Get(def T) T {
	if !p.Valid {
		return def
	}
	return p.Val
}

// IsEmpty reports whether the component is absent or has a zero length value.
func (p Part[T]) IsEmpty() bool { return !p.Valid || len(p.Val) == 0 }

func (p Part[T]) String() string {
	if !p.Valid {
		return "<none>"
	}
	return string(p.Val)
}

func mapPart[T constraints.Byteseq](p Part[T], fn func(T) (T, error)) (Part[T], error) {
	if !p.Valid {
		return p, nil
	}
	v, err := fn(p.Val)
	if err != nil {
		return Part[T]{}, err //errtrace:skip
	}
	return Some(v), nil
}
