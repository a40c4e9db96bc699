package emulator

import (
	"github.com/ezrec/ifetch/translate"
)

var f = translate.From

// ErrRuntime indicates which core failed.
type ErrRuntime struct {
	Core int
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("core %d %v", err.Core, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
