package catalog

import (
	"errors"
	"strings"

	"github.com/jacksmith/pcparts/internal/api"
)

// Messages shown when the service gives nothing more specific.
const (
	MsgUnknown       = "unknown error"
	MsgNetwork       = "network or unexpected error"
	MsgDeleteFailed  = "error deleting"
	MsgDeleteNetwork = "network error while deleting"
	MsgLoadFailed    = "could not load parts"
	MsgIDLocked      = "id cannot be changed while editing"
	errLineSeparator = ", "
)

// ErrSuperseded is returned when a response arrives after a newer request
// for the same slot was issued. Such responses do not touch client state.
var ErrSuperseded = errors.New("response superseded by a newer request")

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	// KindValidation is a field-level failure, reported by the service or
	// caught before sending.
	KindValidation ErrorKind = iota + 1
	// KindService is a single message reported by the service.
	KindService
	// KindUnknownService is a failure the service did not explain.
	KindUnknownService
	// KindTransport is a network failure or an unreadable response.
	KindTransport
	// KindLoad is a failed list refresh. The previous list is kept.
	KindLoad
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindService:
		return "service"
	case KindUnknownService:
		return "unknown"
	case KindTransport:
		return "transport"
	case KindLoad:
		return "load"
	}
	return "invalid"
}

// Error is the user-visible outcome of a failed operation.
type Error struct {
	Kind  ErrorKind
	Lines []string // messages to display, one per line
	Err   error    // underlying cause, if any
}

func (e *Error) Error() string {
	return strings.Join(e.Lines, errLineSeparator)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, cause error, lines ...string) *Error {
	return &Error{Kind: kind, Lines: lines, Err: cause}
}

// submitError converts a create/update failure.
func submitError(err error) *Error {
	var re *api.ResponseError
	if !errors.As(err, &re) {
		return newError(KindTransport, err, MsgNetwork)
	}
	switch {
	case re.Detail.IsValidation():
		return newError(KindValidation, err, re.Detail.Validation...)
	case re.Detail.Message != "":
		return newError(KindService, err, re.Detail.Message)
	default:
		return newError(KindUnknownService, err, MsgUnknown)
	}
}

// deleteError converts a delete failure.
func deleteError(err error) *Error {
	var re *api.ResponseError
	if !errors.As(err, &re) {
		return newError(KindTransport, err, MsgDeleteNetwork)
	}
	if lines := re.Detail.Lines(); len(lines) > 0 {
		return newError(KindService, err, lines...)
	}
	return newError(KindUnknownService, err, MsgDeleteFailed)
}
