package isa

import (
	"errors"

	"github.com/ezrec/ifetch/translate"
)

var f = translate.From

var (
	// Codec errors
	ErrInvalidCode         = errors.New(f("invalid code"))
	ErrDestinationConflict = errors.New(f("destination conflict"))
	ErrOperandKind         = errors.New(f("operand kind invalid"))
	ErrConstantOverflow    = errors.New(f("constant exceeds operand size"))
)

// ErrDestination is a meta byte, or a Destination value, that does not
// select exactly one destination.
type ErrDestination uint8

func (err ErrDestination) Error() string {
	return f("destination 0x%02x conflict", uint8(err))
}

func (err ErrDestination) Is(target error) bool {
	return target == ErrInvalidCode || target == ErrDestinationConflict
}

// ErrRegisterCode is an out-of-range register code.
type ErrRegisterCode uint8

func (err ErrRegisterCode) Error() string {
	return f("register code %d invalid", uint8(err))
}

func (err ErrRegisterCode) Is(target error) bool {
	return target == ErrInvalidCode
}

// ErrDynamicCode is a dynamic operand code that is out of range, or not
// supported by the decode function it was handed to.
type ErrDynamicCode uint8

func (err ErrDynamicCode) Error() string {
	return f("dynamic code %d invalid", uint8(err))
}

func (err ErrDynamicCode) Is(target error) bool {
	return target == ErrInvalidCode
}

// ErrSizeCode is an invalid size exponent or byte count.
type ErrSizeCode int

func (err ErrSizeCode) Error() string {
	return f("size %d invalid", int(err))
}

func (err ErrSizeCode) Is(target error) bool {
	return target == ErrInvalidCode
}

// ErrOperationCode is an unknown extension or operation.
type ErrOperationCode uint8

func (err ErrOperationCode) Error() string {
	return f("operation 0x%02x invalid", uint8(err))
}

func (err ErrOperationCode) Is(target error) bool {
	return target == ErrInvalidCode
}
