package emulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ifetch/core"
	"github.com/ezrec/ifetch/isa"
	"github.com/ezrec/ifetch/memory"
)

func program(t *testing.T, size int, insts ...isa.Instruction) *memory.Memory {
	buf := &bytes.Buffer{}
	for _, inst := range insts {
		if err := inst.Encode(buf); err != nil {
			t.Fatal(err)
		}
	}
	data := make([]byte, size)
	copy(data, buf.Bytes())
	return memory.NewMemory(data)
}

var (
	instNop  = isa.Instruction{Operation: isa.OP_NOP}
	instHalt = isa.Instruction{Operation: isa.OP_HALT}
)

func TestEmulatorTick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(program(t, 64, instNop, instNop, instHalt), Config{
		Core:  core.DefaultConfig,
		Cores: 3,
	})
	assert.Equal(3, len(emu.Cores))

	var trace []string
	emu.Trace = func(n int, address uint64, inst isa.Instruction) {
		trace = append(trace, fmt.Sprintf("%d %02x %v", n, address, inst))
	}

	ticks := 0
	for {
		done, err := emu.Tick()
		assert.NoError(err)
		if err != nil {
			t.FailNow()
		}
		ticks++
		if done {
			break
		}
	}

	assert.Equal(3, ticks)
	assert.True(emu.Halted())
	assert.Equal([]string{
		"0 00 nop", "1 00 nop", "2 00 nop",
		"0 01 nop", "1 01 nop", "2 01 nop",
		"0 02 halt", "1 02 halt", "2 02 halt",
	}, trace)

	stats := emu.Stats()
	assert.Equal(9, stats.Hits+stats.Misses)

	emu.Reset()
	assert.False(emu.Halted())
	for _, cr := range emu.Cores {
		assert.Equal(uint64(0), cr.Context.Ip)
	}
}

func TestEmulatorTickError(t *testing.T) {
	assert := assert.New(t)

	// Execution runs off the end of memory.
	emu := NewEmulator(program(t, 2, instNop, instNop), Config{Core: core.DefaultConfig, Cores: 2})

	var err error
	for range 3 {
		_, err = emu.Tick()
		if err != nil {
			break
		}
	}

	var rerr *ErrRuntime
	assert.True(errors.As(err, &rerr))
	assert.Equal(0, rerr.Core)
	assert.True(errors.Is(err, memory.ErrOutOfBounds) || errors.Is(err, memory.ErrInsufficientSupply))
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(program(t, 64, instNop, instNop, instNop, instHalt), Config{
		Core:  core.Config{Lifetime: 8, ChunkSize: 8, Interval: 1},
		Cores: 4,
	})

	err := emu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.True(emu.Halted())

	for _, cr := range emu.Cores {
		assert.Equal(uint64(4), cr.Context.Ip)
	}
}

func TestEmulatorRunSteps(t *testing.T) {
	assert := assert.New(t)

	// Zero filled memory decodes as nop; only the step count stops it.
	emu := NewEmulator(program(t, 64), Config{Core: core.DefaultConfig, Cores: 2})

	err := emu.Run(context.Background(), 10)
	assert.NoError(err)
	assert.False(emu.Halted())

	stats := emu.Stats()
	assert.Equal(20, stats.Hits+stats.Misses)
}

func TestEmulatorRunCancel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(program(t, 64), Config{Core: core.DefaultConfig, Cores: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emu.Run(ctx, 0)
	assert.ErrorIs(err, context.Canceled)
}

func TestEmulatorUser(t *testing.T) {
	assert := assert.New(t)

	mem := program(t, 2*memory.PAGE_SIZE, instNop, instHalt)
	table := memory.NewPageTable(memory.Mapping{Virtual: 0x10, Physical: 0})

	emu := NewEmulator(mem, Config{
		Core:  core.DefaultConfig,
		Cores: 1,
		Entry: 0x10000,
		User:  true,
		Table: table,
	})

	assert.NoError(emu.Run(context.Background(), 0))
	assert.Equal(core.PRIVILEGE_USER, emu.Cores[0].Context.Privilege)
	assert.Equal(uint64(0x10002), emu.Cores[0].Context.Ip)
}
