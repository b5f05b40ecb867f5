// Package util provides common utility functions.
package util

import (
	"reflect"

	"github.com/ghettovoice/uritools/internal/constraints"
)

// IsBytes reports whether T is a byte slice kind rather than a string kind.
func IsBytes[T constraints.Byteseq]() bool {
	return reflect.TypeFor[T]().Kind() == reflect.Slice
}
