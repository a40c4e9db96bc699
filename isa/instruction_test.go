package isa

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op       Operation
		mnemonic string
		value    uint8
		operands bool
	}){
		{OP_NOP, "nop", 0x00, false},
		{OP_HALT, "halt", 0x01, false},
		{OP_MOV, "mov", 0x02, true},
		{OP_ADD, "add", 0x10, true},
		{OP_MOD, "mod", 0x14, true},
		{OP_NOT, "not", 0x23, true},
		{OP_SHR, "shr", 0x25, true},
		{OP_RET, "ret", 0x32, false},
		{OP_JNZ, "jnz", 0x34, true},
	}

	for _, entry := range table {
		assert.Equal(entry.mnemonic, entry.op.String())
		assert.Equal(entry.value, entry.op.Encode(), entry.mnemonic)
		assert.Equal(entry.operands, entry.op.HasOperands(), entry.mnemonic)

		op, err := DecodeOperation(entry.value)
		assert.NoError(err)
		assert.Equal(entry.op, op)

		op, ok := OperationByMnemonic(entry.mnemonic)
		assert.True(ok)
		assert.Equal(entry.op, op)
	}

	for _, value := range []uint8{0x04, 0x15, 0x26, 0x35, 0x40, 0xff} {
		_, err := DecodeOperation(value)
		assert.ErrorIs(err, ErrInvalidCode, "0x%02x", value)
	}
}

func TestInstructionRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := []Instruction{
		{Operation: OP_NOP},
		{Operation: OP_HALT},
		{Operation: OP_MOV, Operands: OperandBlock{
			Size: SIZE_WORD, Register: REG_A, Dynamic: OperandConstant(MakeData(SIZE_WORD, 0xffff)),
		}},
		{Operation: OP_JMP, Operands: OperandBlock{
			Size: SIZE_QWORD, Destination: DESTINATION_DYNAMIC, Dynamic: OperandConstant(MakeData(SIZE_QWORD, 0x40)),
		}},
		{Operation: OP_ADD, Operands: OperandBlock{
			Size: SIZE_QWORD, Destination: DESTINATION_EXTERNAL, Register: REG_R1,
			Dynamic:  OperandRegister(REG_R2),
			External: OperandAddressConstant(MakeData(SIZE_WORD, 0x100)),
		}},
	}

	stream := &bytes.Buffer{}
	for _, inst := range table {
		before := stream.Len()
		assert.NoError(inst.Encode(stream))
		assert.Equal(inst.Len(), stream.Len()-before, inst.String())
	}

	reader := bytes.NewReader(stream.Bytes())
	for _, inst := range table {
		back, err := DecodeInstruction(reader)
		assert.NoError(err)
		if diff := cmp.Diff(inst, back); diff != "" {
			t.Errorf("%v (-want +got):\n%s", inst, diff)
		}
	}

	_, err := DecodeInstruction(reader)
	assert.ErrorIs(err, io.EOF)
}

func TestInstructionTruncated(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeInstruction(bytes.NewReader([]byte{0x02}))
	assert.ErrorIs(err, io.ErrUnexpectedEOF)

	_, err = DecodeInstruction(bytes.NewReader([]byte{0x02, 0x42, 0x00, 0xff}))
	assert.ErrorIs(err, io.ErrUnexpectedEOF)

	_, err = Instruction{Operation: Operation{Extension: 5}}.AppendBinary(nil)
	assert.ErrorIs(err, ErrInvalidCode)
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		inst Instruction
		text string
	}){
		{Instruction{Operation: OP_RET}, "ret"},
		{Instruction{Operation: OP_MOV, Operands: OperandBlock{
			Size: SIZE_WORD, Register: REG_A,
			Dynamic: OperandArray(Calculated{Base: REG_R1, Offset: MakeData(SIZE_BYTE, 4)}),
		}}, "mov.w a, [r1+0x4]"},
		{Instruction{Operation: OP_MOV, Operands: OperandBlock{
			Size: SIZE_WORD, Destination: DESTINATION_DYNAMIC, Register: REG_A,
			Dynamic: OperandArray(Calculated{Base: REG_R1, Offset: MakeData(SIZE_BYTE, 4)}),
		}}, "mov.w [r1+0x4], a"},
		{Instruction{Operation: OP_ADD, Operands: OperandBlock{
			Size: SIZE_QWORD, Destination: DESTINATION_EXTERNAL, Register: REG_A,
			Dynamic:  OperandRegister(REG_R1),
			External: OperandAddressConstant(MakeData(SIZE_WORD, 0x100)),
		}}, "add.q [0x100], a, r1"},
		{Instruction{Operation: OP_JMP, Operands: OperandBlock{
			Size: SIZE_QWORD, Destination: DESTINATION_DYNAMIC, Dynamic: OperandConstant(MakeData(SIZE_QWORD, 0x40)),
		}}, "jmp.q 0x40"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.inst.String())
	}
}
