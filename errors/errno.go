// Package errors defines the error-kind enumeration used throughout simdisk.
// It mirrors the wire ErrorCode values exchanged between a session and the
// dispatcher, plus a handful of conditions that never cross the wire.
package errors

import (
	"fmt"
)

// SimdiskError is a string-constant error kind, the same shape the teacher
// repo's DiskoError uses: a named value that is both a valid error and a
// stable identity other code can compare against with errors.Is.
type SimdiskError string

// Wire-level error kinds. These correspond one-to-one with the ErrorCode
// enumeration exchanged in a Response.
const (
	ErrExists          = SimdiskError("file exists")
	ErrExceeded        = SimdiskError("exceeded")
	ErrWaitRequest     = SimdiskError("waiting for confirmation")
	ErrFileNotFound    = SimdiskError("no such file or directory")
	ErrFileNotMatch    = SimdiskError("file type mismatch")
	ErrPermissionDenied = SimdiskError("permission denied")
	ErrLocked          = SimdiskError("resource is locked")
	ErrFailure         = SimdiskError("operation failed")
)

// Internal-only conditions, never placed directly on the wire; dispatch/
// maps ErrFileTooLarge to the Exceeded code, ErrNotADirectory and
// ErrIsADirectory to FileNotMatch, and the rest to Failure before building
// a Response.
const (
	ErrFileTooLarge  = SimdiskError("file too large")
	ErrIO            = SimdiskError("input/output error")
	ErrCorrupted     = SimdiskError("file system structure needs cleaning")
	ErrNotADirectory = SimdiskError("not a directory")
	ErrIsADirectory  = SimdiskError("is a directory")
	ErrInvalidArgument = SimdiskError("invalid argument")
	ErrNoSpace       = SimdiskError("no space left on device")
)

func (e SimdiskError) Error() string {
	return string(e)
}

func (e SimdiskError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       message,
		originalError: e,
	}
}

func (e SimdiskError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}
