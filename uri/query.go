package uri

import (
	"iter"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uritools/internal/constraints"
	"github.com/ghettovoice/uritools/internal/util"
)

// QueryItem is a single key/value pair of a form-encoded query.
// A key without "=" has an absent value.
type QueryItem[T constraints.Byteseq] struct {
	Key   T
	Value Part[T]
}

// QueryList is an ordered sequence of query pairs, duplicate keys are kept.
type QueryList[T constraints.Byteseq] []QueryItem[T]

// ParseQuery parses the form-encoded query.
// The query is split on "&", empty segments are dropped, each segment is split
// on the first "=". Keys and values are decoded with "+" standing for space.
func ParseQuery[T constraints.Byteseq](query T, opts ...Option) (QueryList[T], error) {
	l := QueryList[T]{}
	for len(query) > 0 {
		var seg T
		if i := util.IndexByte(query, '&'); i >= 0 {
			seg, query = query[:i], query[i+1:]
		} else {
			seg, query = query, query[len(query):]
		}
		if len(seg) == 0 {
			continue
		}

		var item QueryItem[T]
		key := seg
		if i := util.IndexByte(seg, '='); i >= 0 {
			key = seg[:i]
			val, err := DecodePlus(seg[i+1:], opts...)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			item.Value = Some(val)
		}
		var err error
		if item.Key, err = DecodePlus(key, opts...); err != nil {
			return nil, errtrace.Wrap(err)
		}
		l = append(l, item)
	}
	return l, nil
}

// Encode form-encodes the list: pairs are joined with "&", keys and values
// are percent-encoded with space written as "+".
// An empty list gives an absent query.
func (l QueryList[T]) Encode(opts ...Option) (Part[T], error) {
	if len(l) == 0 {
		return Part[T]{}, nil
	}

	b := make([]byte, 0, 16*len(l))
	for i, item := range l {
		if i > 0 {
			b = append(b, '&')
		}
		k, err := EncodePlus(item.Key, "", opts...)
		if err != nil {
			return Part[T]{}, errtrace.Wrap(err)
		}
		b = append(b, k...)
		if !item.Value.Valid {
			continue
		}
		v, err := EncodePlus(item.Value.Val, "", opts...)
		if err != nil {
			return Part[T]{}, errtrace.Wrap(err)
		}
		b = append(b, '=')
		b = append(b, v...)
	}
	return Some(T(b)), nil
}

// Dict groups the values by key keeping the first-seen key order.
func (l QueryList[T]) Dict() *QueryDict[T] {
	d := &QueryDict[T]{vals: make(map[string][]Part[T], len(l))}
	for _, item := range l {
		d.Add(item.Key, item.Value)
	}
	return d
}

// QueryDict maps query keys to their values in order of appearance.
type QueryDict[T constraints.Byteseq] struct {
	keys []T
	vals map[string][]Part[T]
}

// Add appends the value to the key.
func (d *QueryDict[T]) Add(key T, val Part[T]) {
	if d.vals == nil {
		d.vals = make(map[string][]Part[T])
	}
	k := string(key)
	if _, ok := d.vals[k]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[k] = append(d.vals[k], val)
}

// Get returns all values of the key.
func (d *QueryDict[T]) Get(key T) []Part[T] {
	if d == nil {
		return nil
	}
	return d.vals[string(key)]
}

// Has reports whether the key is present.
func (d *QueryDict[T]) Has(key T) bool {
	if d == nil {
		return false
	}
	_, ok := d.vals[string(key)]
	return ok
}

// Keys returns the keys in order of first appearance.
func (d *QueryDict[T]) Keys() []T {
	if d == nil {
		return nil
	}
	return d.keys
}

func (d *QueryDict[T]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// All iterates over the keys and their values in order of first appearance.
func (d *QueryDict[T]) All() iter.Seq2[T, []Part[T]] {
	return func(yield func(T, []Part[T]) bool) {
		for _, k := range d.Keys() {
			if !yield(k, d.vals[string(k)]) {
				return
			}
		}
	}
}

// List flattens the dict back into a list, values of a key stay together.
func (d *QueryDict[T]) List() QueryList[T] {
	var l QueryList[T]
	for k, vs := range d.All() {
		for _, v := range vs {
			l = append(l, QueryItem[T]{Key: k, Value: v})
		}
	}
	return l
}
