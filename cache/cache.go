// Package cache holds decoded instructions keyed by fetch address.
//
// Every access ages the cache by one tick, modelling a global clock. An entry
// starts with the cache's Lifetime, loses one per tick, and is purged when it
// reaches zero. Taking an entry refreshes its lifetime.
package cache

import (
	"errors"
	"io"
	"iter"
	"log"
	"slices"

	"github.com/ezrec/ifetch/isa"
)

const (
	DEFAULT_LIFETIME   = 16 // Ticks an untouched entry survives.
	DEFAULT_CHUNK_SIZE = 32 // Entries populate fills the cache up to.
)

// Entry is a cached instruction.
type Entry struct {
	BaseAddress uint64
	Instruction isa.Instruction
	Lifetime    int
}

// DecodeCache is a per-core cache of decoded instructions. It is not safe
// for concurrent use.
type DecodeCache struct {
	Verbose   bool // If set, logs purges and population.
	Lifetime  int  // Lifetime of new and refreshed entries.
	ChunkSize int  // Entry count populate fills up to.

	entries []Entry
}

// NewDecodeCache creates an empty cache.
func NewDecodeCache(lifetime, chunkSize int) *DecodeCache {
	return &DecodeCache{
		Lifetime:  lifetime,
		ChunkSize: chunkSize,
	}
}

// Len returns the number of entries.
func (dc *DecodeCache) Len() int {
	return len(dc.entries)
}

// Entries iterates over the entries in insertion order.
func (dc *DecodeCache) Entries() iter.Seq[Entry] {
	return slices.Values(dc.entries)
}

// Reset drops all entries.
func (dc *DecodeCache) Reset() {
	dc.entries = dc.entries[:0]
}

// lookup returns the index of the newest entry at address.
func (dc *DecodeCache) lookup(address uint64) int {
	for n := len(dc.entries) - 1; n >= 0; n-- {
		if dc.entries[n].BaseAddress == address {
			return n
		}
	}
	return -1
}

// Find returns the instruction at address if a live entry holds it. It does
// not age the cache.
func (dc *DecodeCache) Find(address uint64) (inst isa.Instruction, ok bool) {
	n := dc.lookup(address)
	if n < 0 || dc.entries[n].Lifetime == 0 {
		return
	}

	return dc.entries[n].Instruction, true
}

// Age decrements every lifetime and purges the entries that reach zero.
func (dc *DecodeCache) Age() (purged int) {
	for n := range dc.entries {
		if dc.entries[n].Lifetime > 0 {
			dc.entries[n].Lifetime--
		}
	}

	before := len(dc.entries)
	dc.entries = slices.DeleteFunc(dc.entries, func(entry Entry) bool {
		return entry.Lifetime == 0
	})
	purged = before - len(dc.entries)

	if dc.Verbose && purged > 0 {
		log.Printf("cache: purged %d, %d live", purged, len(dc.entries))
	}

	return
}

// Take ages the cache, then returns the instruction at address and refreshes
// its lifetime.
func (dc *DecodeCache) Take(address uint64) (inst isa.Instruction, ok bool) {
	dc.Age()

	n := dc.lookup(address)
	if n < 0 {
		return
	}

	dc.entries[n].Lifetime = dc.Lifetime
	return dc.entries[n].Instruction, true
}

// Append ages the cache, then inserts an entry. Capacity is only enforced by
// Populate.
func (dc *DecodeCache) Append(address uint64, inst isa.Instruction) {
	dc.Age()

	dc.entries = append(dc.entries, Entry{
		BaseAddress: address,
		Instruction: inst,
		Lifetime:    dc.Lifetime,
	})
}

// Populate decodes instructions from the stream's current position until the
// cache holds ChunkSize entries. The end of the stream at an instruction
// boundary stops the fill without error; any other failure stops it with an
// *ErrPopulate, keeping what was already appended.
func (dc *DecodeCache) Populate(stream io.ReadSeeker) (count int, err error) {
	remaining := max(dc.ChunkSize-len(dc.entries), 0)

	for range remaining {
		var base int64
		base, err = stream.Seek(0, io.SeekCurrent)
		if err != nil {
			err = &ErrPopulate{Address: uint64(base), Appended: count, Err: err}
			return
		}

		var inst isa.Instruction
		inst, err = isa.DecodeInstruction(stream)
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if err != nil {
			err = &ErrPopulate{Address: uint64(base), Appended: count, Err: err}
			return
		}

		dc.Append(uint64(base), inst)
		count++
	}

	if dc.Verbose {
		log.Printf("cache: populated %d", count)
	}

	return
}
