package memory

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ifetch/isa"
)

// pattern fills a memory with the low byte of each address.
func pattern(size int) *Memory {
	data := make([]byte, size)
	for n := range data {
		data[n] = byte(n)
	}
	return NewMemory(data)
}

func TestPagedReadSpanning(t *testing.T) {
	assert := assert.New(t)

	mem := pattern(4 * PAGE_SIZE)
	pg, err := NewPaged(mem, NewPageTable(
		Mapping{Virtual: 0x10, Physical: 2},
		Mapping{Virtual: 0x11, Physical: 0},
	))
	assert.NoError(err)

	_, err = pg.Seek(0x10ffc, io.SeekStart)
	assert.NoError(err)

	buf := make([]byte, 8)
	n, err := pg.Read(buf)
	assert.NoError(err)
	assert.Equal(8, n)
	assert.False(pg.InvalidPage)
	// Last four bytes of physical page 2, first four of physical page 0.
	assert.Equal([]byte{0xfc, 0xfd, 0xfe, 0xff, 0x00, 0x01, 0x02, 0x03}, buf)
	assert.Equal(uint64(0x11004), pg.Position)
}

func TestPagedReadFault(t *testing.T) {
	assert := assert.New(t)

	mem := pattern(4 * PAGE_SIZE)
	pg, err := NewPaged(mem, NewPageTable(Mapping{Virtual: 0, Physical: 1}))
	assert.NoError(err)

	pg.Position = PAGE_SIZE - 2

	buf := make([]byte, 6)
	n, err := pg.Read(buf)
	assert.NoError(err)
	assert.Equal(2, n)
	assert.True(pg.InvalidPage)
	assert.Equal([]byte{0xfe, 0xff}, buf[:n])

	// The next read starts at the unmapped page.
	n, err = pg.Read(buf)
	assert.Equal(0, n)
	assert.ErrorIs(err, ErrPageFault)
	assert.True(pg.InvalidPage)
}

func TestPagedOverflow(t *testing.T) {
	assert := assert.New(t)

	stream := &countingStream{Memory: pattern(PAGE_SIZE)}
	pg := &Paged{Stream: stream, Table: NewPageTable(Mapping{Virtual: math.MaxUint64 >> PAGE_ITEM_BITS, Physical: 0})}
	pg.Position = math.MaxUint64 - 2

	n, err := pg.Read(make([]byte, 8))
	assert.ErrorIs(err, ErrOverflow)
	assert.Equal(0, n)
	assert.Equal(0, stream.calls)

	n, err = pg.Write(make([]byte, 8))
	assert.ErrorIs(err, ErrOverflow)
	assert.Equal(0, n)
	assert.Equal(0, stream.calls)
}

func TestPagedWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(make([]byte, 2*PAGE_SIZE))
	pg, err := NewPaged(mem, NewPageTable(
		Mapping{Virtual: 0, Physical: 1},
		Mapping{Virtual: 1, Physical: 0},
	))
	assert.NoError(err)

	pg.Position = PAGE_SIZE - 1
	n, err := pg.Write([]byte{0xaa, 0xbb})
	assert.NoError(err)
	assert.Equal(2, n)
	assert.Equal(byte(0xaa), mem.Data[2*PAGE_SIZE-1])
	assert.Equal(byte(0xbb), mem.Data[0])

	// Writing into an unmapped page is short.
	pg.Position = 2*PAGE_SIZE - 1
	n, err = pg.Write([]byte{0x11, 0x22})
	assert.Equal(1, n)
	assert.ErrorIs(err, ErrPageFault)
	assert.True(pg.InvalidPage)
}

func TestPagedEndOfStream(t *testing.T) {
	assert := assert.New(t)

	// Mapped page beyond the end of the backing memory.
	mem := pattern(PAGE_SIZE + 4)
	pg, err := NewPaged(mem, NewPageTable(Mapping{Virtual: 0, Physical: 1}))
	assert.NoError(err)

	buf := make([]byte, 8)
	n, err := pg.Read(buf)
	assert.NoError(err)
	assert.Equal(4, n)
	assert.False(pg.InvalidPage)

	n, err = pg.Read(buf)
	assert.Equal(0, n)
	assert.ErrorIs(err, io.EOF)
}

func TestPagedReadFrame(t *testing.T) {
	assert := assert.New(t)

	mem := pattern(PAGE_SIZE + 2)
	pg, err := NewPaged(mem, NewPageTable(Mapping{Virtual: 7, Physical: 0}, Mapping{Virtual: 8, Physical: 1}))
	assert.NoError(err)

	data, err := pg.ReadFrame(Frame{Address: 0x7ffe, Size: isa.SIZE_DWORD})
	assert.NoError(err)
	assert.Equal(isa.Data{Size: isa.SIZE_DWORD, Value: 0x0100fffe}, data)

	_, err = pg.ReadFrame(Frame{Address: 0x8000, Size: isa.SIZE_DWORD})
	assert.ErrorIs(err, ErrInsufficientSupply)

	_, err = pg.ReadFrame(Frame{Address: 0x9000, Size: isa.SIZE_BYTE})
	assert.ErrorIs(err, ErrPageFault)
}

func TestPagedSeek(t *testing.T) {
	assert := assert.New(t)

	mem := pattern(16)
	_, err := mem.Seek(5, io.SeekStart)
	assert.NoError(err)

	pg, err := NewPaged(mem, NewPageTable())
	assert.NoError(err)
	assert.Equal(uint64(5), pg.Position)

	pos, err := pg.Seek(3, io.SeekCurrent)
	assert.NoError(err)
	assert.Equal(int64(8), pos)

	_, err = pg.Seek(0, io.SeekEnd)
	assert.ErrorIs(err, ErrSeekWhence)

	_, err = NewPaged(mem, nil)
	assert.ErrorIs(err, ErrNoPageTable)
}

func TestPagedSeekOverflow(t *testing.T) {
	assert := assert.New(t)

	pg := &Paged{Stream: pattern(16), Table: NewPageTable()}

	// The cursor is past what a seek offset can express.
	pg.Position = math.MaxInt64 + 1
	_, err := pg.Seek(0, io.SeekCurrent)
	assert.ErrorIs(err, ErrOverflow)

	pg.Position = math.MaxInt64 - 1
	_, err = pg.Seek(2, io.SeekCurrent)
	assert.ErrorIs(err, ErrOverflow)
	assert.Equal(uint64(math.MaxInt64-1), pg.Position)

	pos, err := pg.Seek(1, io.SeekCurrent)
	assert.NoError(err)
	assert.Equal(int64(math.MaxInt64), pos)

	pos, err = pg.Seek(-10, io.SeekCurrent)
	assert.NoError(err)
	assert.Equal(int64(math.MaxInt64-10), pos)

	// Absolute seeks are unaffected.
	pg.Position = math.MaxUint64
	pos, err = pg.Seek(4, io.SeekStart)
	assert.NoError(err)
	assert.Equal(int64(4), pos)
}

// countingStream counts the I/O calls made on a Memory.
type countingStream struct {
	*Memory
	calls int
}

func (cs *countingStream) Read(buf []byte) (int, error) {
	cs.calls++
	return cs.Memory.Read(buf)
}

func (cs *countingStream) Write(buf []byte) (int, error) {
	cs.calls++
	return cs.Memory.Write(buf)
}

func (cs *countingStream) Seek(offset int64, whence int) (int64, error) {
	cs.calls++
	return cs.Memory.Seek(offset, whence)
}
