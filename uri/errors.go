package uri

import "github.com/ghettovoice/uritools/internal/errorutil"

// Error is a sentinel error returned by the URI engine.
type Error string

func (e Error) Error() string { return string(e) }

// Grammar reports whether the error is caused by malformed input rather than by a caller mistake.
func (e Error) Grammar() bool {
	switch e {
	case ErrInvalidAuthorityType, ErrInvalidQueryType:
		return false
	default:
		return true
	}
}

const (
	ErrInvalidScheme          Error = "invalid scheme"
	ErrInvalidAuthorityType   Error = "invalid authority type"
	ErrInvalidAuthorityLength Error = "invalid authority length"
	ErrInvalidHost            Error = "invalid host"
	ErrInvalidPort            Error = "invalid port"
	ErrInvalidPath            Error = "invalid path"
	ErrInvalidQueryType       Error = "invalid query type"
	ErrEncoding               Error = "encoding error"
	ErrIDNA                   Error = "idna error"
)

func newInvalidHostErr(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidHost, args...) //errtrace:skip
}

func newInvalidPortErr(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidPort, args...) //errtrace:skip
}

func newInvalidPathErr(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidPath, args...) //errtrace:skip
}

func newEncodingErr(args ...any) error {
	return errorutil.NewWrapperError(ErrEncoding, args...) //errtrace:skip
}

func newIDNAErr(args ...any) error {
	return errorutil.NewWrapperError(ErrIDNA, args...) //errtrace:skip
}
