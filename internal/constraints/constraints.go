// Package constraints provides constraints for various types.
package constraints

// Byteseq represents a generic byte string, either text (~string) or raw bytes (~[]byte).
type Byteseq interface {
	~string | ~[]byte
}

// Integer represents any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}
