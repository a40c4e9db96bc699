package main

import (
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ifetch/emulator"
	"github.com/ezrec/ifetch/internal"
	"github.com/ezrec/ifetch/isa"
	"github.com/ezrec/ifetch/memory"
)

// TraceConfig is the configuration of a trace.
type TraceConfig struct {
	Emulator emulator.Config
	Steps    int    // Steps per core; zero runs until every core halts.
	Memory   uint64 // Minimum memory size; the image is zero extended.
}

// DefaultTraceConfig returns the configuration used without a script.
func DefaultTraceConfig() TraceConfig {
	return TraceConfig{
		Emulator: emulator.DefaultConfig,
	}
}

// configPredeclared are the constants visible to configuration scripts.
func configPredeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{}
	for key, value := range internal.IterSeq2Concat(isa.Defines(), memory.Defines()) {
		v, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	return
}

// LoadConfig executes a starlark configuration script and applies the
// globals it defines to cfg. If src is nil, the script is read from
// filename.
//
//	lifetime = 16       # decode cache entry lifetime
//	chunk = 32          # decode cache population target
//	interval = 10       # steps between cache populations
//	cores = 2
//	entry = 0x10000
//	user = True
//	pages = {0x10: 0}   # virtual page: physical page
//	steps = 1000
//	memory = 2 * PAGE_SIZE
func LoadConfig(filename string, src any, cfg *TraceConfig) (err error) {
	thread := &starlark.Thread{Name: "config"}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, configPredeclared())
	if err != nil {
		return
	}

	ints := [](struct {
		key   string
		value *int
	}){
		{"lifetime", &cfg.Emulator.Core.Lifetime},
		{"chunk", &cfg.Emulator.Core.ChunkSize},
		{"interval", &cfg.Emulator.Core.Interval},
		{"cores", &cfg.Emulator.Cores},
		{"steps", &cfg.Steps},
	}

	for _, entry := range ints {
		value, ok := globals[entry.key]
		if !ok {
			continue
		}
		var v uint64
		v, err = configUint(entry.key, value)
		if err != nil {
			return
		}
		*entry.value = int(v)
	}

	if value, ok := globals["entry"]; ok {
		cfg.Emulator.Entry, err = configUint("entry", value)
		if err != nil {
			return
		}
	}

	if value, ok := globals["memory"]; ok {
		cfg.Memory, err = configUint("memory", value)
		if err != nil {
			return
		}
	}

	if value, ok := globals["user"]; ok {
		user, ok := value.(starlark.Bool)
		if !ok {
			err = &ErrConfig{Key: "user", Err: ErrConfigType}
			return
		}
		cfg.Emulator.User = bool(user)
	}

	if value, ok := globals["pages"]; ok {
		cfg.Emulator.Table, err = configPages(value)
		if err != nil {
			return
		}
	}

	return
}

// configUint converts a non-negative starlark integer.
func configUint(key string, value starlark.Value) (v uint64, err error) {
	st_int, ok := value.(starlark.Int)
	if ok {
		v, ok = st_int.Uint64()
	}
	if !ok {
		err = &ErrConfig{Key: key, Err: ErrConfigType}
	}
	return
}

// configPages builds a page table from a dict of virtual to physical pages,
// mapped in insertion order.
func configPages(value starlark.Value) (table *memory.PageTable, err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = &ErrConfig{Key: "pages", Err: ErrConfigType}
		return
	}

	table = memory.NewPageTable()
	for _, item := range dict.Items() {
		var virtual, physical uint64
		virtual, err = configUint("pages", item[0])
		if err != nil {
			return
		}
		physical, err = configUint("pages", item[1])
		if err != nil {
			return
		}
		table.Map(virtual, physical)
	}

	return
}
