// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"io"
	"log"

	"github.com/ezrec/ifetch/isa"
)

const PAGE_SIZE_HINT = PAGE_SIZE // Default page size hint of a Memory.

// Memory is a flat byte buffer. Frame accesses either fully succeed or fail
// without touching the buffer.
type Memory struct {
	Verbose bool // If set, logs faulting accesses.

	Data       []byte    // Backing store.
	MaxAddress uint64    // Upper bound of accessible addresses, if Bounded.
	Bounded    bool      // If set, frames must lie below MaxAddress.
	PageSize   int       // Page size hint for loaders.
	Table      PageTable // Mappings for translated frame access.

	position int64 // Stream cursor.
}

var _ io.ReadWriteSeeker = (*Memory)(nil)

// NewMemory creates a memory over an initial buffer, which also fixes the
// maximum address.
func NewMemory(data []byte) (mem *Memory) {
	mem = &Memory{
		Data:       data,
		MaxAddress: uint64(len(data)),
		Bounded:    true,
		PageSize:   PAGE_SIZE_HINT,
	}

	return
}

// resolve translates and checks a frame.
func (mem *Memory) resolve(frame Frame, translate bool) (physical Frame, err error) {
	physical = frame
	defer func() {
		if err != nil {
			if mem.Verbose {
				log.Printf("memory: %v: %v", frame, err)
			}
			err = &ErrFrame{Frame: frame, Err: err}
		}
	}()

	if translate {
		physical.Address, err = mem.Table.Translate(frame.Address)
		if err != nil {
			return
		}
	}

	if !physical.IsAligned() {
		err = ErrUnalignedFrame
		return
	}

	if mem.Bounded && !physical.Within(mem.MaxAddress) {
		err = ErrOutOfBounds
		return
	}

	if !physical.Within(uint64(len(mem.Data))) {
		err = ErrOutOfBounds
		return
	}

	return
}

// Get reads a frame, optionally translating its address through Table first.
func (mem *Memory) Get(frame Frame, translate bool) (data isa.Data, err error) {
	physical, err := mem.resolve(frame, translate)
	if err != nil {
		return
	}

	return isa.DataFromBytes(mem.Data[physical.Address:physical.MaxAddress()])
}

// Set writes a frame, resizing data to the frame's size.
func (mem *Memory) Set(frame Frame, data isa.Data, translate bool) (err error) {
	physical, err := mem.resolve(frame, translate)
	if err != nil {
		return
	}

	copy(mem.Data[physical.Address:physical.MaxAddress()], data.Resize(frame.Size).Bytes())
	return
}

// limit is the end of the readable and writable region.
func (mem *Memory) limit() int64 {
	limit := int64(len(mem.Data))
	if mem.Bounded && mem.MaxAddress < uint64(limit) {
		limit = int64(mem.MaxAddress)
	}
	return limit
}

// Read reads from the cursor.
func (mem *Memory) Read(buf []byte) (n int, err error) {
	if mem.position >= mem.limit() {
		err = io.EOF
		return
	}

	n = copy(buf, mem.Data[mem.position:mem.limit()])
	mem.position += int64(n)
	return
}

// Write writes at the cursor. Writes past the end of the memory are
// truncated and fail with ErrOutOfBounds.
func (mem *Memory) Write(buf []byte) (n int, err error) {
	if mem.position < mem.limit() {
		n = copy(mem.Data[mem.position:mem.limit()], buf)
		mem.position += int64(n)
	}

	if n < len(buf) {
		err = ErrOutOfBounds
	}
	return
}

// Seek moves the cursor.
func (mem *Memory) Seek(offset int64, whence int) (position int64, err error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += mem.position
	case io.SeekEnd:
		offset += mem.limit()
	default:
		err = ErrSeekWhence
		return
	}

	if offset < 0 {
		err = ErrSeekNegative
		return
	}

	mem.position = offset
	position = offset
	return
}

// Unmarshal loads a memory image, replacing the existing data and bounds.
func (mem *Memory) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	mem.Data = data
	mem.MaxAddress = uint64(len(data))
	mem.position = 0

	return
}

// Marshal writes the accessible memory image.
func (mem *Memory) Marshal(file io.Writer) (err error) {
	_, err = file.Write(mem.Data[:mem.limit()])

	return
}
