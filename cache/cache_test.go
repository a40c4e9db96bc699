package cache

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ifetch/isa"
)

func lifetimes(dc *DecodeCache) (out []int) {
	for entry := range dc.Entries() {
		out = append(out, entry.Lifetime)
	}
	return
}

var instA = isa.Instruction{Operation: isa.OP_NOP}
var instB = isa.Instruction{Operation: isa.OP_MOV, Operands: isa.OperandBlock{
	Size: isa.SIZE_WORD, Register: isa.REG_A, Dynamic: isa.OperandConstant(isa.MakeData(isa.SIZE_WORD, 0xffff)),
}}

func TestDecodeCacheLifetime(t *testing.T) {
	assert := assert.New(t)

	dc := NewDecodeCache(4, 8)

	dc.Append(0x10, instA)
	dc.Append(0x20, instB)
	assert.Equal([]int{3, 4}, lifetimes(dc))

	inst, ok := dc.Find(0x10)
	assert.True(ok)
	assert.Equal(instA, inst)

	assert.Equal(0, dc.Age())
	assert.Equal(0, dc.Age())
	assert.Equal(1, dc.Age())
	assert.Equal([]int{1}, lifetimes(dc))

	_, ok = dc.Find(0x10)
	assert.False(ok)

	// The entry is gone, so take cannot revive it.
	_, ok = dc.Take(0x10)
	assert.False(ok)
	assert.Equal(0, dc.Len())
}

func TestDecodeCacheTake(t *testing.T) {
	assert := assert.New(t)

	dc := NewDecodeCache(4, 8)
	dc.Append(0x10, instA)
	dc.Append(0x20, instB)
	dc.Age()
	assert.Equal([]int{2, 3}, lifetimes(dc))

	inst, ok := dc.Take(0x20)
	assert.True(ok)
	if diff := cmp.Diff(instB, inst); diff != "" {
		t.Errorf("take (-want +got):\n%s", diff)
	}
	assert.Equal([]int{1, 4}, lifetimes(dc))

	// The returned value is a copy.
	inst.Operands.Register = isa.REG_R9
	again, ok := dc.Find(0x20)
	assert.True(ok)
	assert.Equal(isa.REG_A, again.Operands.Register)

	_, ok = dc.Take(0x30)
	assert.False(ok)
	assert.Equal([]int{3}, lifetimes(dc))
}

func TestDecodeCacheFindZeroLifetime(t *testing.T) {
	assert := assert.New(t)

	// A zero lifetime cache only holds entries until the next tick.
	dc := NewDecodeCache(0, 8)
	dc.Append(0x10, instA)
	assert.Equal(1, dc.Len())

	_, ok := dc.Find(0x10)
	assert.False(ok)

	assert.Equal(1, dc.Age())
	assert.Equal(0, dc.Len())
}

func TestDecodeCacheShadow(t *testing.T) {
	assert := assert.New(t)

	dc := NewDecodeCache(4, 8)
	dc.Append(0x10, instA)
	dc.Append(0x10, instB)

	inst, ok := dc.Find(0x10)
	assert.True(ok)
	assert.Equal(instB, inst)

	dc.Reset()
	assert.Equal(0, dc.Len())
}

func program(t *testing.T, insts ...isa.Instruction) []byte {
	buf := &bytes.Buffer{}
	for _, inst := range insts {
		if err := inst.Encode(buf); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestDecodeCachePopulate(t *testing.T) {
	assert := assert.New(t)

	image := program(t, instA, instB, instA, instB, instA)

	dc := NewDecodeCache(16, 3)
	dc.Append(0x100, instA)

	count, err := dc.Populate(bytes.NewReader(image))
	assert.NoError(err)
	assert.Equal(2, count)
	assert.Equal(3, dc.Len())

	var addresses []uint64
	for entry := range dc.Entries() {
		addresses = append(addresses, entry.BaseAddress)
	}
	assert.Equal([]uint64{0x100, 0, 1}, addresses)

	// Full caches do not populate.
	count, err = dc.Populate(bytes.NewReader(image))
	assert.NoError(err)
	assert.Equal(0, count)
}

func TestDecodeCachePopulateEnd(t *testing.T) {
	assert := assert.New(t)

	image := program(t, instA, instB)

	dc := NewDecodeCache(16, 8)
	count, err := dc.Populate(bytes.NewReader(image))
	assert.NoError(err)
	assert.Equal(2, count)
}

func TestDecodeCachePopulateError(t *testing.T) {
	assert := assert.New(t)

	image := program(t, instA, instB)
	image = append(image, 0x02, 0x42) // Truncated mov.

	dc := NewDecodeCache(16, 8)
	count, err := dc.Populate(bytes.NewReader(image))
	assert.Equal(2, count)
	assert.ErrorIs(err, io.ErrUnexpectedEOF)

	var popErr *ErrPopulate
	assert.True(errors.As(err, &popErr))
	assert.Equal(uint64(len(image)-2), popErr.Address)
	assert.Equal(2, popErr.Appended)

	// Progress is kept.
	assert.Equal(2, dc.Len())

	dc.Reset()
	_, err = dc.Populate(bytes.NewReader([]byte{0xff}))
	assert.ErrorIs(err, isa.ErrInvalidCode)
}

func TestManagerTick(t *testing.T) {
	assert := assert.New(t)

	image := program(t, slices.Repeat([]isa.Instruction{instA}, 64)...)

	dc := NewDecodeCache(1000, 4)
	mgr := NewManager(dc, 10)

	var ticks []int
	for tick := range 40 {
		populated, count, err := mgr.Tick(bytes.NewReader(image))
		assert.NoError(err)
		if populated {
			ticks = append(ticks, tick)
			dc.Reset()
			assert.Equal(4, count)
		} else {
			assert.Equal(0, count)
		}
	}

	assert.Equal([]int{9, 19, 29, 39}, ticks)
}

func TestManagerEveryTick(t *testing.T) {
	assert := assert.New(t)

	mgr := NewManager(NewDecodeCache(4, 4), 0)
	populated, _, err := mgr.Tick(bytes.NewReader(nil))
	assert.NoError(err)
	assert.True(populated)

	mgr.Interval = 2
	mgr.Reset()
	populated, _, _ = mgr.Tick(bytes.NewReader(nil))
	assert.False(populated)
	populated, _, _ = mgr.Tick(bytes.NewReader(nil))
	assert.True(populated)
}
