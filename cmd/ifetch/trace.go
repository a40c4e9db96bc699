package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ezrec/ifetch/emulator"
	"github.com/ezrec/ifetch/isa"
	"github.com/ezrec/ifetch/memory"
)

var traceCmd = &cobra.Command{
	Use:   "trace IMAGE",
	Short: "Trace instruction fetch over a memory image.",
	Long: `trace loads a memory image and steps one or more cores over it, ` +
		`printing every decoded instruction and the decode cache ` +
		`statistics of each core. Settings may be given by a starlark ` +
		`script (--config); flags override the script.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg := DefaultTraceConfig()

		script, _ := cmd.Flags().GetString("config")
		if len(script) > 0 {
			err = LoadConfig(script, nil, &cfg)
			if err != nil {
				return
			}
		}

		err = applyTraceFlags(cmd, &cfg)
		if err != nil {
			return
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return
		}
		if uint64(len(data)) < cfg.Memory {
			data = append(data, make([]byte, cfg.Memory-uint64(len(data)))...)
		}

		emu := emulator.NewEmulator(memory.NewMemory(data), cfg.Emulator)
		emu.Verbose = verbose

		parallel, _ := cmd.Flags().GetBool("parallel")
		quiet, _ := cmd.Flags().GetBool("quiet")

		out := cmd.OutOrStdout()
		if !quiet && !parallel {
			emu.Trace = func(n int, address uint64, inst isa.Instruction) {
				fmt.Fprintf(out, "%d %04x: %v\n", n, address, inst)
			}
		}

		if parallel {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			err = emu.Run(ctx, cfg.Steps)
		} else {
			for step := 0; cfg.Steps <= 0 || step < cfg.Steps; step++ {
				var done bool
				done, err = emu.Tick()
				if err != nil || done {
					break
				}
			}
		}

		printStats(out, emu)

		return
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	flags := traceCmd.Flags()
	flags.String("config", "", "Starlark configuration script")
	flags.Int("cores", emulator.DEFAULT_CORES, "Number of cores")
	flags.Int("steps", 0, "Steps per core, or 0 to run until halted")
	flags.Uint64("entry", 0, "Initial instruction pointer")
	flags.Bool("user", false, "Start cores in user mode")
	flags.Int("lifetime", 0, "Decode cache entry lifetime")
	flags.Int("chunk", 0, "Decode cache population target")
	flags.Int("interval", 0, "Steps between decode cache populations")
	flags.Uint64("memory", 0, "Minimum memory size")
	flags.Bool("parallel", false, "Run every core on its own goroutine")
	flags.BoolP("quiet", "q", false, "Only print statistics")
}

// applyTraceFlags overrides the configuration with the flags given on the
// command line.
func applyTraceFlags(cmd *cobra.Command, cfg *TraceConfig) (err error) {
	flags := cmd.Flags()

	ints := [](struct {
		name  string
		value *int
	}){
		{"cores", &cfg.Emulator.Cores},
		{"steps", &cfg.Steps},
		{"lifetime", &cfg.Emulator.Core.Lifetime},
		{"chunk", &cfg.Emulator.Core.ChunkSize},
		{"interval", &cfg.Emulator.Core.Interval},
	}

	for _, entry := range ints {
		if !flags.Changed(entry.name) {
			continue
		}
		*entry.value, err = flags.GetInt(entry.name)
		if err != nil {
			return
		}
	}

	if flags.Changed("entry") {
		cfg.Emulator.Entry, err = flags.GetUint64("entry")
		if err != nil {
			return
		}
	}

	if flags.Changed("memory") {
		cfg.Memory, err = flags.GetUint64("memory")
		if err != nil {
			return
		}
	}

	if flags.Changed("user") {
		cfg.Emulator.User, err = flags.GetBool("user")
		if err != nil {
			return
		}
	}

	return
}

func printStats(out io.Writer, emu *emulator.Emulator) {
	for n, cr := range emu.Cores {
		fmt.Fprintf(out, "core %d %v: ip %04x halted %v hits %d misses %d populated %d\n",
			n, cr.Id, cr.Context.Ip, cr.Halted, cr.Hits, cr.Misses, cr.Populated)
		if cr.PopulateErr != nil {
			fmt.Fprintf(out, "core %d %v: %v\n", n, cr.Id, cr.PopulateErr)
		}
	}

	stats := emu.Stats()
	fmt.Fprintf(out, "total: hits %d misses %d populated %d\n", stats.Hits, stats.Misses, stats.Populated)
}
