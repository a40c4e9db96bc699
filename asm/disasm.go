package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ezrec/ifetch/isa"
)

// Line is a disassembled instruction.
type Line struct {
	Address     uint64
	Instruction isa.Instruction
}

func (line Line) String() string {
	return fmt.Sprintf("%04x: %v", line.Address, line.Instruction)
}

// ErrDecode reports where disassembly stopped.
type ErrDecode struct {
	Address uint64
	Err     error
}

func (err *ErrDecode) Error() string {
	return f("0x%x: %v", err.Address, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// Disassemble decodes instructions until the input ends. The first
// instruction is at address origin. The lines decoded before a failure are
// returned with the error.
func Disassemble(input io.Reader, origin uint64) (lines []Line, err error) {
	r := bufio.NewReader(input)
	address := origin

	for {
		var inst isa.Instruction
		inst, err = isa.DecodeInstruction(r)
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			err = &ErrDecode{Address: address, Err: err}
			return
		}

		lines = append(lines, Line{Address: address, Instruction: inst})
		address += uint64(inst.Len())
	}
}
