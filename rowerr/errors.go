// Package rowerr defines the error kinds fatal to a block in progress:
// a numeric Code plus a formatted Msg, one constructor per code.
package rowerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies one of the fatal error kinds this package reports.
type Code int

const (
	// InternalError covers defects in this package's own bookkeeping
	// that do not fit one of the named codes below.
	InternalError Code = iota
	// EmptySchema: the block has zero columns.
	EmptySchema
	// UnsupportedType: a column or nested element is neither fixed nor
	// variable per the classification table.
	UnsupportedType
	// InvariantBroken: Phase-2 cursor for a row diverged from its
	// predicted length at column-iteration end.
	InvariantBroken
	// ValueOutOfRange: a computed quantity (e.g. a descriptor size)
	// exceeds what the row format can represent.
	ValueOutOfRange
	// InvalidConfiguration: a log.Config value is not usable.
	InvalidConfiguration
)

// Error is the error type this package's constructors return, wrapped
// with github.com/pkg/errors.WithStack at the point it is first
// constructed so a caller recovers a stack trace, not just a message.
type Error struct {
	Code Code
	Msg  string

	stacked error
}

func (e Error) Error() string { return e.Msg }

// Unwrap exposes the github.com/pkg/errors.WithStack wrapper underneath,
// so errors.Is/As still reach the stack frame
// recorded at construction time.
func (e Error) Unwrap() error { return e.stacked }

func newf(code Code, format string, args ...interface{}) Error {
	msg := fmt.Sprintf(fmt.Sprintf("RWC%04d - %s", code, format), args...)
	return Error{Code: code, Msg: msg, stacked: errors.WithStack(fmt.Errorf(msg))}
}

// NewEmptySchemaError reports a block with zero columns.
func NewEmptySchemaError() Error {
	return newf(EmptySchema, "block has zero columns")
}

// NewUnsupportedTypeErrorf reports a column or nested element type that
// is neither fixed nor variable per the classification table.
func NewUnsupportedTypeErrorf(format string, args ...interface{}) Error {
	return newf(UnsupportedType, format, args...)
}

// NewInvariantBrokenErrorf reports a Phase-2 cursor for a row that
// diverged from its Phase-1 predicted length.
func NewInvariantBrokenErrorf(format string, args ...interface{}) Error {
	return newf(InvariantBroken, format, args...)
}

// NewValueOutOfRangeErrorf reports a computed quantity too large for the
// row format to represent.
func NewValueOutOfRangeErrorf(format string, args ...interface{}) Error {
	return newf(ValueOutOfRange, format, args...)
}

// NewInvalidConfigurationError reports an unusable configuration value.
func NewInvalidConfigurationError(msg string) Error {
	return newf(InvalidConfiguration, msg)
}
