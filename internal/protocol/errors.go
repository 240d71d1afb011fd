package protocol

import (
	"encoding/gob"
	"fmt"
)

// ErrorKind discriminates the errors surfaced to clients.
type ErrorKind int

const (
	NotFound ErrorKind = iota
	AlreadyExists
	AmbiguousData
	BadData
	TeamExists
	GameInProgress
	NoSessionSupplied
	SessionSupplied
	InternalError
	NotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case AmbiguousData:
		return "AmbiguousData"
	case BadData:
		return "BadData"
	case TeamExists:
		return "TeamExists"
	case GameInProgress:
		return "GameInProgress"
	case NoSessionSupplied:
		return "NoSessionSupplied"
	case SessionSupplied:
		return "SessionSupplied"
	case InternalError:
		return "InternalError"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the error value that crosses the wire to clients. Detail carries
// the BadData reason or the TeamExists colliding name, where applicable.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// New builds an *Error of the given kind with no detail.
func New(kind ErrorKind) *Error { return &Error{Kind: kind} }

// Newf builds an *Error of the given kind with a formatted detail.
func Newf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func init() {
	gob.Register(&Error{})
}
