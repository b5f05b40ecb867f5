package util

import (
	"bytes"
	"strings"
	"sync"

	"github.com/ghettovoice/uritools/internal/constraints"
)

// LCase returns s with all Unicode letters mapped to their lower case.
func LCase[T constraints.Byteseq](s T) T {
	if IsBytes[T]() {
		return T(bytes.ToLower([]byte(s)))
	}
	return T(strings.ToLower(string(s)))
}

// HasPrefix reports whether s begins with prefix.
func HasPrefix[T constraints.Byteseq](s T, prefix string) bool {
	return len(s) >= len(prefix) && string(s[:len(prefix)]) == prefix
}

// IndexByte returns the index of the first c in s, or -1.
func IndexByte[T constraints.Byteseq](s T, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// LastIndexByte returns the index of the last c in s, or -1.
func LastIndexByte[T constraints.Byteseq](s T, c byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// Concat joins the parts into a new value of type T.
func Concat[T constraints.Byteseq](parts ...T) T {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	buf := make([]byte, 0, n)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return T(buf)
}

var strBldrPool = &sync.Pool{
	New: func() any {
		sb := new(strings.Builder)
		sb.Grow(256)
		return sb
	},
}

func GetStringBuilder() *strings.Builder {
	return strBldrPool.Get().(*strings.Builder) //nolint:forcetypeassert
}

func FreeStringBuilder(sb *strings.Builder) {
	sb.Reset()
	strBldrPool.Put(sb)
}
