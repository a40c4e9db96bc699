package memory

import (
	"errors"

	"github.com/ezrec/ifetch/translate"
)

var f = translate.From

var (
	// Frame errors
	ErrUnalignedFrame = errors.New(f("unaligned frame"))
	ErrOutOfBounds    = errors.New(f("out of bounds"))
	ErrPageFault      = errors.New(f("page fault"))

	// Stream errors
	ErrOverflow           = errors.New(f("address overflow"))
	ErrInsufficientSupply = errors.New(f("insufficient supply"))
	ErrSeekWhence         = errors.New(f("seek whence invalid"))
	ErrSeekNegative       = errors.New(f("seek to negative position"))
	ErrNoPageTable        = errors.New(f("no page table"))
)

// ErrFrame is a failed frame access.
type ErrFrame struct {
	Frame Frame
	Err   error
}

func (err *ErrFrame) Error() string {
	return f("frame %v %v", err.Frame, err.Err)
}

func (err *ErrFrame) Unwrap() error {
	return err.Err
}

// ErrPage is a virtual address with no page mapping.
type ErrPage uint64

func (err ErrPage) Error() string {
	return f("page fault at 0x%x", uint64(err))
}

func (err ErrPage) Is(target error) bool {
	return target == ErrPageFault
}
