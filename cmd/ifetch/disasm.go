package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/ifetch/asm"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm IMAGE",
	Short: "Disassemble a memory image.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		origin, _ := cmd.Flags().GetUint64("origin")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return
		}

		lines, err := asm.Disassemble(bytes.NewReader(data), origin)
		for _, line := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		return
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().Uint64("origin", 0, "Address of the first byte of the image")
}
