package cache

import (
	"github.com/ezrec/ifetch/translate"
)

var f = translate.From

// ErrPopulate is a failure part way through filling the cache. Entries
// appended before the failure stay in the cache.
type ErrPopulate struct {
	Address  uint64 // Address of the instruction that failed.
	Appended int    // Instructions appended before the failure.
	Err      error
}

func (err *ErrPopulate) Error() string {
	return f("populate at 0x%x after %d: %v", err.Address, err.Appended, err.Err)
}

func (err *ErrPopulate) Unwrap() error {
	return err.Err
}
