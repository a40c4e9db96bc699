package memory

import (
	"errors"
	"io"
	"math"
	"math/bits"

	"github.com/ezrec/ifetch/isa"
)

// Paged is a virtual view of a seekable stream through a page table.
//
// Reads and writes are serviced page by page. A page fault stops the
// transfer and sets InvalidPage; a read that transferred some bytes before
// the fault reports them without an error, so callers must check both the
// count and InvalidPage to tell a completed read from a faulted one.
type Paged struct {
	Stream      io.ReadWriteSeeker // Underlying physical stream.
	Table       *PageTable         // Page mappings.
	Position    uint64             // Virtual cursor.
	InvalidPage bool               // Set if the last transfer hit a page fault.
}

var _ io.ReadWriteSeeker = (*Paged)(nil)

// NewPaged creates a paged view starting at the stream's current position.
func NewPaged(stream io.ReadWriteSeeker, table *PageTable) (pg *Paged, err error) {
	if table == nil {
		err = ErrNoPageTable
		return
	}

	position, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}

	pg = &Paged{
		Stream:   stream,
		Table:    table,
		Position: uint64(position),
	}
	return
}

// transfer runs xfer over buf one physical page at a time.
func (pg *Paged) transfer(buf []byte, xfer func([]byte) (int, error)) (done int, err error) {
	pg.InvalidPage = false

	if len(buf) == 0 {
		return
	}

	if pg.Table == nil {
		err = ErrNoPageTable
		return
	}

	_, carry := bits.Add64(pg.Position, uint64(len(buf)), 0)
	if carry != 0 {
		err = ErrOverflow
		return
	}

	pageSize := pg.Table.PageSize()

	for done < len(buf) {
		var physical uint64
		physical, err = pg.Table.Translate(pg.Position)
		if err != nil {
			pg.InvalidPage = true
			return
		}

		if physical > math.MaxInt64 {
			err = ErrOverflow
			return
		}

		chunk := uint64(len(buf) - done)
		inPage := pageSize - (physical & (pageSize - 1))
		if chunk > inPage {
			chunk = inPage
		}

		_, err = pg.Stream.Seek(int64(physical), io.SeekStart)
		if err != nil {
			return
		}

		var n int
		n, err = xfer(buf[done : done+int(chunk)])
		done += n
		pg.Position += uint64(n)
		if err != nil || n == 0 {
			return
		}
	}

	return
}

// Read reads from the virtual cursor.
func (pg *Paged) Read(buf []byte) (n int, err error) {
	n, err = pg.transfer(buf, pg.Stream.Read)

	switch {
	case n > 0 && (pg.InvalidPage || errors.Is(err, io.EOF)):
		// Partial success, the fault is reported by the next read.
		err = nil
	case n == 0 && err == nil && len(buf) > 0:
		err = io.EOF
	}

	return
}

// Write writes at the virtual cursor.
func (pg *Paged) Write(buf []byte) (n int, err error) {
	n, err = pg.transfer(buf, pg.Stream.Write)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}

	return
}

// Seek moves the virtual cursor. Virtual space has no end, so io.SeekEnd is
// not supported.
func (pg *Paged) Seek(offset int64, whence int) (position int64, err error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		if pg.Position > math.MaxInt64 || (offset > 0 && int64(pg.Position) > math.MaxInt64-offset) {
			err = ErrOverflow
			return
		}
		offset += int64(pg.Position)
	default:
		err = ErrSeekWhence
		return
	}

	if offset < 0 {
		err = ErrSeekNegative
		return
	}

	pg.Position = uint64(offset)
	position = offset
	return
}

// ReadFrame reads a frame at a virtual address. A stream that ends inside the
// frame fails with ErrInsufficientSupply.
func (pg *Paged) ReadFrame(frame Frame) (data isa.Data, err error) {
	buf := make([]byte, frame.Size.Bytes())

	pg.Position = frame.Address
	_, err = io.ReadFull(pg, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrInsufficientSupply
	}
	if err != nil {
		err = &ErrFrame{Frame: frame, Err: err}
		return
	}

	return isa.DataFromBytes(buf)
}
