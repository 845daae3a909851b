// Package kernel implements a fixed-capacity thread scheduler, a
// syscall-based thread/counter/semaphore API, and a length-prefixed
// message reassembly layer over a best-effort packet transport.
package kernel

import (
	"errors"
	"fmt"

	"github.com/arcadekernel/naomikernel/internal/wire"
)

// Error is a structured kernel error carrying the operation that failed
// and a high-level category, in addition to the usual message/wrapped
// error.
type Error struct {
	Op    string // operation that failed, e.g. "send", "recv", "create"
	Code  ErrorCode
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("kernel: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("kernel: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// ErrorCode categorizes kernel errors. ErrCodePayloadTooLarge,
// ErrCodeSendFailed and ErrCodeNotReady correspond to the negative wire
// codes in the messaging surface (-3, -4, -5). ErrCodeNoCapacity has no
// wire code and nothing in this package returns it: thread, counter and
// semaphore operations signal a full table or an unknown handle via
// sentinel zero values rather than errors.
type ErrorCode string

const (
	ErrCodePayloadTooLarge ErrorCode = "payload too large"
	ErrCodeSendFailed      ErrorCode = "transport send failed"
	ErrCodeNotReady        ErrorCode = "no message ready"
	ErrCodeNoCapacity      ErrorCode = "table at capacity"
)

// NewError builds a structured Error.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// WrapError wraps inner with operation context, mapping the wire package's
// sentinel errors onto the corresponding ErrorCode where recognized.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ke, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: ke.Code, Msg: ke.Msg, Inner: ke.Inner}
	}
	return &Error{Op: op, Code: classify(inner), Msg: inner.Error(), Inner: inner}
}

func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, wire.ErrPayloadTooLarge):
		return ErrCodePayloadTooLarge
	case errors.Is(err, wire.ErrSendFailed):
		return ErrCodeSendFailed
	case errors.Is(err, wire.ErrNotReady):
		return ErrCodeNotReady
	default:
		return ""
	}
}

// IsCode reports whether err is a kernel Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.Code == code
	}
	return false
}
