package isa

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"strings"
)

var _isa_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"SIZE_BYTE":      fmt.Sprintf("%d", SIZE_BYTE.Bytes()),
	"SIZE_WORD":      fmt.Sprintf("%d", SIZE_WORD.Bytes()),
	"SIZE_DWORD":     fmt.Sprintf("%d", SIZE_DWORD.Bytes()),
	"SIZE_QWORD":     fmt.Sprintf("%d", SIZE_QWORD.Bytes()),
}

// Defines returns the assembler predefines of the instruction set.
func Defines() iter.Seq2[string, string] {
	return maps.All(_isa_defines)
}

// Instruction is a decoded instruction. Operands is only meaningful when the
// operation has operands.
type Instruction struct {
	Operation Operation
	Operands  OperandBlock
}

// Len returns the encoded length of the instruction.
func (inst Instruction) Len() int {
	if !inst.Operation.HasOperands() {
		return 1
	}
	return 1 + inst.Operands.Len()
}

// AppendBinary appends the encoded instruction to buf.
func (inst Instruction) AppendBinary(buf []byte) (out []byte, err error) {
	if !inst.Operation.Valid() {
		err = ErrOperationCode(inst.Operation.Encode())
		return buf, err
	}

	out = append(buf, inst.Operation.Encode())
	if inst.Operation.HasOperands() {
		out, err = inst.Operands.AppendBinary(out)
		if err != nil {
			return buf, err
		}
	}

	return
}

// Encode writes the encoded instruction.
func (inst Instruction) Encode(w io.Writer) (err error) {
	buf, err := inst.AppendBinary(nil)
	if err != nil {
		return
	}

	_, err = w.Write(buf)
	return
}

// DecodeInstruction reads one instruction. A stream that is exhausted before
// the instruction starts returns io.EOF.
func DecodeInstruction(r io.Reader) (inst Instruction, err error) {
	var opcode [1]byte
	_, err = io.ReadFull(r, opcode[:])
	if err != nil {
		return
	}

	inst.Operation, err = DecodeOperation(opcode[0])
	if err != nil {
		return
	}

	if inst.Operation.HasOperands() {
		inst.Operands, err = DecodeOperandBlock(r)
		if err != nil {
			err = unexpected(err)
			return
		}
	}

	return
}

// String returns the assembly text of the instruction.
//
//	mov.w a, [r1+0x4]       ; register destination
//	mov.w [r1+0x4], a       ; dynamic destination
//	add.q [0x100], a, r1    ; external destination
//	jmp.q 0x40              ; unary
func (inst Instruction) String() string {
	op := inst.Operation
	blk := inst.Operands

	var args []string
	switch op.Arity() {
	case ARITY_NONE:
		return op.String()
	case ARITY_UNARY:
		args = []string{blk.Dynamic.String()}
	case ARITY_BINARY:
		switch blk.Destination {
		case DESTINATION_DYNAMIC:
			args = []string{blk.Dynamic.String(), blk.Register.String()}
		case DESTINATION_EXTERNAL:
			args = []string{blk.External.String(), blk.Register.String(), blk.Dynamic.String()}
		default:
			args = []string{blk.Register.String(), blk.Dynamic.String()}
		}
	}

	return fmt.Sprintf("%v.%v %v", op, blk.Size, strings.Join(args, ", "))
}
