package asm

import (
	"iter"
)

type Program struct {
	Opcodes []Opcode
}

// Debug returns the opcode that encodes the byte at address, or nil.
func (prog *Program) Debug(address uint64) *Opcode {
	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]
		if address >= op.Address && address < op.Address+uint64(op.Len()) {
			return op
		}
	}

	return nil
}

// Size returns the address just past the last opcode.
func (prog *Program) Size() (size uint64) {
	for _, op := range prog.Opcodes {
		size = max(size, op.Address+uint64(op.Len()))
	}
	return
}

// Binary returns the memory image of the program. Gaps left by .org are
// zero filled.
func (prog *Program) Binary() (bin []byte, err error) {
	bin = make([]byte, prog.Size())

	for address, op := range prog.Codes() {
		var code []byte
		code, err = op.Instruction.AppendBinary(nil)
		if err != nil {
			err = &ErrSyntax{LineNo: op.LineNo, Line: op.Instruction.String(), Err: err}
			return
		}
		copy(bin[address:], code)
	}

	return
}

// Codes iterates the opcodes with their addresses.
func (prog *Program) Codes() iter.Seq2[uint64, *Opcode] {
	return func(yield func(address uint64, op *Opcode) bool) {
		for n := range prog.Opcodes {
			op := &prog.Opcodes[n]
			if !yield(op.Address, op) {
				return
			}
		}
	}
}
