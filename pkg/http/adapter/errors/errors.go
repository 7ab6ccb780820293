package errors

import (
	"errors"
)

var (
	ErrNilConnection   = errors.New("nil connection")
	ErrNilResponse     = errors.New("nil response")
	ErrNilReader       = errors.New("nil reader")
	ErrNilPiper        = errors.New("nil piper")
	ErrNilChannel      = errors.New("nil live-reload channel")
	ErrNilDescriptor   = errors.New("nil error descriptor")
	ErrNilRenderFunc   = errors.New("nil render function")
	ErrUnexpectedBody  = errors.New("unexpected body type")
	ErrNotFound        = errors.New("no matching route")
	ErrRenderPanic     = errors.New("render panic")
	ErrInvalidCookie   = errors.New("invalid cookie")
	ErrNilCookie       = errors.New("nil cookie")
	ErrEmptyCookieName = errors.New("empty cookie name")

	// Protocol-invariant violations. These are programming errors and must reach the caller.
	ErrProtocolViolation  = errors.New("protocol violation")
	ErrHeadAlreadyWritten = &ProtocolViolationError{Message: "head already written"}
	ErrHeadNotWritten     = &ProtocolViolationError{Message: "head not written"}
	ErrConnectionEnded    = &ProtocolViolationError{Message: "connection already ended"}
)

type ProtocolViolationError struct {
	Message string
}

func (protocolViolationError *ProtocolViolationError) Error() string {
	return protocolViolationError.Message
}

func (protocolViolationError *ProtocolViolationError) Is(target error) bool {
	return target == ErrProtocolViolation || target == protocolViolationError
}
