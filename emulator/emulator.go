// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a set of cores over one shared memory.
package emulator

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/ifetch/core"
	"github.com/ezrec/ifetch/isa"
	"github.com/ezrec/ifetch/memory"
)

const DEFAULT_CORES = 1 // Cores of a default emulator.

// Config describes the cores of an emulator and where they start.
type Config struct {
	Core  core.Config       // Decode cache configuration of every core.
	Cores int               // Number of cores.
	Entry uint64            // Initial instruction pointer.
	User  bool              // If set, cores start in user mode through Table.
	Table *memory.PageTable // Page table of user mode.
}

// DefaultConfig is a single supervisor core at address zero.
var DefaultConfig = Config{
	Core:  core.DefaultConfig,
	Cores: DEFAULT_CORES,
}

// Emulator state. Shared memory + cores.
type Emulator struct {
	Verbose bool           // If set, enables verbose logging.
	Config  Config         // Configuration applied by Reset.
	Memory  *memory.Shared // Memory shared by all cores.
	Cores   []*core.Core   // Cores, each with its own decode cache.

	// Trace, if set, is called after every step. Run calls it from the
	// goroutine of each core.
	Trace func(n int, address uint64, inst isa.Instruction)
}

// NewEmulator creates an emulator that owns mem.
func NewEmulator(mem *memory.Memory, config Config) (emu *Emulator) {
	emu = &Emulator{
		Config: config,
		Memory: memory.NewShared(mem),
	}

	for range max(config.Cores, 1) {
		emu.Cores = append(emu.Cores, core.NewCore(emu.Memory, config.Core))
	}

	emu.Reset()

	return
}

// Reset every core to the entry point.
func (emu *Emulator) Reset() {
	ctx := core.Context{
		Ip:        emu.Config.Entry,
		Privilege: core.PRIVILEGE_SUPERVISOR,
	}
	if emu.Config.User {
		ctx.Privilege = core.PRIVILEGE_USER
		ctx.Table = emu.Config.Table
	}

	for _, cr := range emu.Cores {
		cr.Verbose = emu.Verbose
		cr.SetContext(ctx)
	}

	if emu.Verbose {
		log.Printf("emulator: reset %d cores at 0x%x (%v)", len(emu.Cores), ctx.Ip, ctx.Privilege)
	}
}

// Halted returns true once every core has halted.
func (emu *Emulator) Halted() bool {
	for _, cr := range emu.Cores {
		if !cr.Halted {
			return false
		}
	}
	return true
}

// step steps core n once.
func (emu *Emulator) step(n int, cr *core.Core) (err error) {
	address := cr.Context.Ip

	inst, err := cr.Step()
	if err != nil {
		err = &ErrRuntime{Core: n, Err: err}
		return
	}

	if emu.Trace != nil {
		emu.Trace(n, address, inst)
	}

	return
}

// Tick steps every running core once, in order.
func (emu *Emulator) Tick() (done bool, err error) {
	for n, cr := range emu.Cores {
		if cr.Halted {
			continue
		}

		cr.Verbose = emu.Verbose
		err = emu.step(n, cr)
		if err != nil {
			return
		}
	}

	done = emu.Halted()
	return
}

// Run steps every core on its own goroutine until it halts, has taken steps
// steps (if steps is positive), or ctx is done. The first failure cancels
// the other cores.
func (emu *Emulator) Run(ctx context.Context, steps int) (err error) {
	group, ctx := errgroup.WithContext(ctx)

	for n, cr := range emu.Cores {
		cr.Verbose = emu.Verbose
		group.Go(func() error {
			for step := 0; steps <= 0 || step < steps; step++ {
				if cr.Halted {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := emu.step(n, cr); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return group.Wait()
}

// Stats is the combined decode cache statistics of all cores.
type Stats struct {
	Hits      int
	Misses    int
	Populated int
}

// Stats sums the statistics of every core.
func (emu *Emulator) Stats() (stats Stats) {
	for _, cr := range emu.Cores {
		stats.Hits += cr.Hits
		stats.Misses += cr.Misses
		stats.Populated += cr.Populated
	}
	return
}
