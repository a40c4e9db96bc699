// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package core implements the per-core instruction decode step.
package core

import (
	"errors"
	"io"
	"log"
	"math"

	"github.com/rs/xid"

	"github.com/ezrec/ifetch/cache"
	"github.com/ezrec/ifetch/isa"
	"github.com/ezrec/ifetch/memory"
)

// Config sizes the decode cache of a core.
type Config struct {
	Lifetime  int // Decode cache entry lifetime.
	ChunkSize int // Decode cache population target.
	Interval  int // Decode steps between cache populations.
}

// DefaultConfig is the decode cache configuration of a new core.
var DefaultConfig = Config{
	Lifetime:  cache.DEFAULT_LIFETIME,
	ChunkSize: cache.DEFAULT_CHUNK_SIZE,
	Interval:  cache.DEFAULT_POPULATION_INTERVAL,
}

// Core fetches and decodes instructions for one execution context. The core
// owns its decode cache; the memory is shared with other cores.
type Core struct {
	Verbose bool   // Set to enable verbose logging.
	Id      string // Unique core identifier.

	Context Context        // Current execution context.
	Manager *cache.Manager // Decode cache and its population schedule.
	Halted  bool           // Set once a halt instruction is stepped.

	Hits        int   // Decode cache hits.
	Misses      int   // Decode cache misses.
	Populated   int   // Instructions added by cache population.
	PopulateErr error // Last cache population failure.

	shared *memory.Shared
	stream io.ReadSeeker
}

// NewCore creates a core over shared memory, starting in supervisor mode at
// address zero.
func NewCore(shared *memory.Shared, config Config) (core *Core) {
	dc := cache.NewDecodeCache(config.Lifetime, config.ChunkSize)

	core = &Core{
		Id:      xid.New().String(),
		Manager: cache.NewManager(dc, config.Interval),
		shared:  shared,
	}

	return
}

// Cache returns the core's decode cache.
func (core *Core) Cache() *cache.DecodeCache {
	return core.Manager.Cache
}

// SetContext switches the execution context. Cached instructions belong to
// the previous view of memory, so the decode cache is flushed.
func (core *Core) SetContext(ctx Context) {
	if core.Verbose {
		log.Printf("core %v: context %v ip 0x%x", core.Id, ctx.Privilege, ctx.Ip)
	}

	core.Context = ctx
	core.Halted = false
	core.PopulateErr = nil
	core.stream = nil
	core.Manager.Cache.Reset()
	core.Manager.Reset()
}

// source returns the byte stream of the current context.
func (core *Core) source() (stream io.ReadSeeker, err error) {
	if core.stream != nil {
		return core.stream, nil
	}

	if core.Context.Restricted() {
		if core.Context.Table == nil {
			err = memory.ErrNoPageTable
			return
		}
		core.stream = core.shared.Paged(core.Context.Table)
	} else {
		core.stream = core.shared.Handle()
	}

	return core.stream, nil
}

// Decode returns the instruction at the instruction pointer, from the decode
// cache if possible. A miss decodes from memory and caches the result. Every
// decode ticks the cache manager, which periodically reads ahead from the
// following instruction; read-ahead failures are recorded in PopulateErr and
// do not fail the decode.
func (core *Core) Decode() (inst isa.Instruction, err error) {
	ip := core.Context.Ip

	defer func() {
		if err != nil {
			err = &ErrFetch{Ip: ip, Err: err}
		}
	}()

	if ip > math.MaxInt64 {
		err = memory.ErrOverflow
		return
	}

	stream, err := core.source()
	if err != nil {
		return
	}

	dc := core.Manager.Cache

	inst, ok := dc.Take(ip)
	if ok {
		core.Hits++
	} else {
		core.Misses++

		_, err = stream.Seek(int64(ip), io.SeekStart)
		if err != nil {
			return
		}

		inst, err = isa.DecodeInstruction(stream)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = memory.ErrInsufficientSupply
		}
		if err != nil {
			return
		}

		dc.Append(ip, inst)
	}

	next := ip + uint64(inst.Len())
	if next > math.MaxInt64 {
		return
	}

	_, err = stream.Seek(int64(next), io.SeekStart)
	if err != nil {
		return
	}

	populated, count, perr := core.Manager.Tick(stream)
	if populated {
		core.Populated += count
	}
	if perr != nil {
		core.PopulateErr = perr
		if core.Verbose {
			log.Printf("core %v: %v", core.Id, perr)
		}
	}

	return
}

// Step decodes the instruction at the instruction pointer and advances past
// it. Stepping a halt instruction halts the core.
func (core *Core) Step() (inst isa.Instruction, err error) {
	if core.Halted {
		err = ErrHalted
		return
	}

	inst, err = core.Decode()
	if err != nil {
		return
	}

	if core.Verbose {
		log.Printf("core %v: %04x: %v", core.Id, core.Context.Ip, inst)
	}

	core.Context.Ip += uint64(inst.Len())
	if inst.Operation == isa.OP_HALT {
		core.Halted = true
	}

	return
}
