package core

import (
	"errors"

	"github.com/ezrec/ifetch/translate"
)

var f = translate.From

var (
	ErrHalted = errors.New(f("core halted"))
)

// ErrFetch is a failed instruction fetch.
type ErrFetch struct {
	Ip  uint64
	Err error
}

func (err *ErrFetch) Error() string {
	return f("fetch 0x%x %v", err.Ip, err.Err)
}

func (err *ErrFetch) Unwrap() error {
	return err.Err
}
