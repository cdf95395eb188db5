// Package ingesterr provides structured error handling for the row buffer,
// carrying the three error codes the streaming ingest client surfaces to
// callers: UNKNOWN_DATA_TYPE, INVALID_ROW, and INTERNAL_ERROR.
package ingesterr

import (
	"errors"
	"fmt"
	"runtime"
)

// Code categorizes an Error the way the ingest client's callers expect.
type Code string

const (
	// UnknownDataType is raised when a (logicalType, physicalType) pair
	// falls outside the supported type matrix, at schema setup or encode
	// time. Fatal for the owning channel.
	UnknownDataType Code = "UNKNOWN_DATA_TYPE"
	// InvalidRow is raised when a single row fails to encode: type
	// mismatch, out-of-range value, or a fraction that exceeds the
	// column's declared scale.
	InvalidRow Code = "INVALID_ROW"
	// InternalError marks an invariant violation: a column known to the
	// schema is missing its vector, field, or stats entry, or a vector
	// has an unexpected underlying kind.
	InternalError Code = "INTERNAL_ERROR"
)

// StackFrame is a single frame captured at the point an Error was created.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error is a structured error carrying a Code, a human message, an
// optional wrapped cause, and the stack at the point of creation.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Stack   []StackFrame
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Stack: captureStack(2)}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and message, preserving the
// original stack if the cause is itself an *Error.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: code, Message: message, Cause: err, Stack: existing.Stack}
	}

	return &Error{Code: code, Message: message, Cause: err, Stack: captureStack(2)}
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// UnknownType builds the standard UNKNOWN_DATA_TYPE error for an
// unsupported (logicalType, physicalType) pair.
func UnknownType(logicalType, physicalType string) *Error {
	return New(UnknownDataType, fmt.Sprintf("unknown column type: logicalType=%s, physicalType=%s", logicalType, physicalType))
}

func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{Function: fn.Name(), File: file, Line: line})
	}

	return frames
}
