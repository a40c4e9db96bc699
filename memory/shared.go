package memory

import (
	"io"
	"sync"

	"github.com/ezrec/ifetch/isa"
)

// Shared owns a Memory and serialises every access to it. Each frame access,
// and each read or write of a handle, holds the lock for its whole duration.
type Shared struct {
	mutex  sync.Mutex
	memory *Memory
}

// NewShared takes ownership of mem.
func NewShared(mem *Memory) *Shared {
	return &Shared{memory: mem}
}

// With runs fn with exclusive access to the memory.
func (sh *Shared) With(fn func(mem *Memory) error) error {
	sh.mutex.Lock()
	defer sh.mutex.Unlock()

	return fn(sh.memory)
}

// Get reads a frame.
func (sh *Shared) Get(frame Frame, translate bool) (data isa.Data, err error) {
	err = sh.With(func(mem *Memory) (err error) {
		data, err = mem.Get(frame, translate)
		return
	})
	return
}

// Set writes a frame.
func (sh *Shared) Set(frame Frame, data isa.Data, translate bool) (err error) {
	return sh.With(func(mem *Memory) error {
		return mem.Set(frame, data, translate)
	})
}

// Handle returns a stream over the physical memory with its own cursor.
func (sh *Shared) Handle() *Handle {
	return &Handle{shared: sh}
}

// Paged returns a stream over the virtual memory described by table, with
// its own cursor. Each page-spanning read or write holds the lock once.
func (sh *Shared) Paged(table *PageTable) *PagedHandle {
	return &PagedHandle{
		shared: sh,
		paged:  Paged{Stream: sh.memory, Table: table},
	}
}

// Handle is a physical stream over a Shared memory.
type Handle struct {
	shared   *Shared
	position int64
}

var _ io.ReadWriteSeeker = (*Handle)(nil)

func (h *Handle) Read(buf []byte) (n int, err error) {
	err = h.shared.With(func(mem *Memory) (err error) {
		mem.position = h.position
		n, err = mem.Read(buf)
		h.position = mem.position
		return
	})
	return
}

func (h *Handle) Write(buf []byte) (n int, err error) {
	err = h.shared.With(func(mem *Memory) (err error) {
		mem.position = h.position
		n, err = mem.Write(buf)
		h.position = mem.position
		return
	})
	return
}

func (h *Handle) Seek(offset int64, whence int) (position int64, err error) {
	err = h.shared.With(func(mem *Memory) (err error) {
		mem.position = h.position
		position, err = mem.Seek(offset, whence)
		h.position = mem.position
		return
	})
	return
}

// PagedHandle is a virtual stream over a Shared memory.
type PagedHandle struct {
	shared *Shared
	paged  Paged
}

var _ io.ReadWriteSeeker = (*PagedHandle)(nil)

func (ph *PagedHandle) Read(buf []byte) (n int, err error) {
	err = ph.shared.With(func(*Memory) (err error) {
		n, err = ph.paged.Read(buf)
		return
	})
	return
}

func (ph *PagedHandle) Write(buf []byte) (n int, err error) {
	err = ph.shared.With(func(*Memory) (err error) {
		n, err = ph.paged.Write(buf)
		return
	})
	return
}

// Seek moves the virtual cursor. It does not touch the memory.
func (ph *PagedHandle) Seek(offset int64, whence int) (int64, error) {
	return ph.paged.Seek(offset, whence)
}

// InvalidPage returns true if the last read or write hit a page fault.
func (ph *PagedHandle) InvalidPage() bool {
	return ph.paged.InvalidPage
}

// ReadFrame reads a frame at a virtual address.
func (ph *PagedHandle) ReadFrame(frame Frame) (data isa.Data, err error) {
	err = ph.shared.With(func(*Memory) (err error) {
		data, err = ph.paged.ReadFrame(frame)
		return
	})
	return
}
