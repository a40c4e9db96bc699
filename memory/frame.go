package memory

import (
	"fmt"

	"github.com/ezrec/ifetch/isa"
)

// Frame is a fixed-width memory access.
type Frame struct {
	Address uint64
	Size    isa.Size
}

// IsAligned returns true if the address is a multiple of the size.
func (frame Frame) IsAligned() bool {
	return frame.Address%uint64(frame.Size.Bytes()) == 0
}

// MaxAddress returns the address one past the end of the frame.
func (frame Frame) MaxAddress() uint64 {
	return frame.Address + uint64(frame.Size.Bytes())
}

// Within returns true if the whole frame lies below limit.
func (frame Frame) Within(limit uint64) bool {
	count := uint64(frame.Size.Bytes())
	return frame.Address <= limit && limit-frame.Address >= count
}

func (frame Frame) String() string {
	return fmt.Sprintf("0x%x.%v", frame.Address, frame.Size)
}
