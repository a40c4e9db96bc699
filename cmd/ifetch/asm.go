package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/ifetch/asm"
)

var asmCmd = &cobra.Command{
	Use:   "asm SOURCE",
	Short: "Assemble a source file into a memory image.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		output, _ := cmd.Flags().GetString("output")
		defines, _ := cmd.Flags().GetStringArray("define")
		listing, _ := cmd.Flags().GetBool("listing")

		assembler := &asm.Assembler{Verbose: verbose}
		for _, define := range defines {
			name, value, ok := strings.Cut(define, "=")
			if !ok {
				value = "1"
			}
			assembler.Predefine(name, value)
		}

		prog, err := assembleFile(assembler, args[0])
		if err != nil {
			return
		}

		bin, err := prog.Binary()
		if err != nil {
			return
		}

		if listing {
			for address, op := range prog.Codes() {
				fmt.Fprintf(cmd.OutOrStdout(), "%04x: %-32v ; %d: %v\n",
					address, op.Instruction, op.LineNo, strings.Join(op.Words, " "))
			}
		}

		if output == "-" {
			_, err = cmd.OutOrStdout().Write(bin)
			return
		}

		return os.WriteFile(output, bin, 0o644)
	},
}

func init() {
	rootCmd.AddCommand(asmCmd)
	asmCmd.Flags().StringP("output", "o", "a.out", "Memory image to write, or - for stdout")
	asmCmd.Flags().StringArrayP("define", "D", nil, "Predefine an equate as NAME=VALUE")
	asmCmd.Flags().BoolP("listing", "l", false, "Print a listing")
}

// assembleFile parses a source file, or stdin if the name is "-".
func assembleFile(assembler *asm.Assembler, name string) (prog *asm.Program, err error) {
	var input io.Reader = os.Stdin
	if name != "-" {
		var inf *os.File
		inf, err = os.Open(name)
		if err != nil {
			return
		}
		defer inf.Close()
		input = inf
	}

	prog, err = assembler.Parse(input)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
	}

	return
}
