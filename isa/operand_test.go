package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandRequirement(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code DynamicCode
		req  Requirement
	}){
		{0, Requirement{Register: true}},
		{1, Requirement{Constant: true}},
		{2, Requirement{Register: true}},
		{3, Requirement{Constant: true, Fixed: true, Size: SIZE_BYTE}},
		{4, Requirement{Constant: true, Fixed: true, Size: SIZE_WORD}},
		{5, Requirement{Constant: true, Fixed: true, Size: SIZE_DWORD}},
		{6, Requirement{Constant: true, Fixed: true, Size: SIZE_QWORD}},
		{7, Requirement{Register: true, Constant: true, Fixed: true, Size: SIZE_BYTE}},
		{10, Requirement{Register: true, Constant: true, Fixed: true, Size: SIZE_QWORD}},
		{11, Requirement{Register: true, Constant: true, Fixed: true, Size: SIZE_BYTE}},
		{14, Requirement{Register: true, Constant: true, Fixed: true, Size: SIZE_QWORD}},
	}

	for _, entry := range table {
		req, err := entry.code.Requirement()
		assert.NoError(err, entry.code)
		assert.Equal(entry.req, req, entry.code)
	}

	_, err := DYNAMIC_RESERVED.Requirement()
	assert.ErrorIs(err, ErrInvalidCode)

	assert.Equal(SIZE_WORD, Requirement{Constant: true}.ConstantSize(SIZE_WORD))
	assert.Equal(SIZE_BYTE, Requirement{Constant: true, Fixed: true}.ConstantSize(SIZE_QWORD))
}

func TestOperandRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := []Operand{
		OperandRegister(REG_R4),
		OperandConstant(MakeData(SIZE_WORD, 0xffff)),
		OperandAddressRegister(REG_BP),
		OperandAddressConstant(MakeData(SIZE_BYTE, 0x80)),
		OperandAddressConstant(MakeData(SIZE_QWORD, 0x1_0000_0000)),
		OperandArray(Calculated{Base: REG_SP, Offset: MakeData(SIZE_WORD, 0x1234)}),
		OperandArrayAtOffset(Calculated{Base: REG_I1, Offset: MakeData(SIZE_DWORD, 0x10)}),
	}

	for _, op := range table {
		code := op.Encode()
		assert.True(code.Valid(), op.String())

		req, err := code.Requirement()
		assert.NoError(err)

		var reg Register
		var constant Data
		if req.Register {
			reg = op.Register
		}
		if req.Constant {
			constant = op.Constant.Resize(req.ConstantSize(op.Constant.Size))
		}

		back, err := code.Decode(reg, constant)
		assert.NoError(err, op.String())
		assert.Equal(op, back)
	}
}

func TestOperandDecodeMismatch(t *testing.T) {
	assert := assert.New(t)

	_, err := DYNAMIC_CONSTANT.DecodeRegister(REG_A)
	assert.ErrorIs(err, ErrInvalidCode)

	_, err = DYNAMIC_REGISTER.DecodeConstant(MakeData(SIZE_BYTE, 1))
	assert.ErrorIs(err, ErrInvalidCode)

	_, err = DYNAMIC_ADDRESS_REGISTER.DecodeCalculated(Calculated{})
	assert.ErrorIs(err, ErrInvalidCode)

	_, err = DYNAMIC_RESERVED.Decode(REG_A, Data{})
	assert.ErrorIs(err, ErrInvalidCode)
}

func TestOperandForcedSize(t *testing.T) {
	assert := assert.New(t)

	// Address constants take the code's size, whatever the constant was.
	op, err := (DYNAMIC_ADDRESS_CONSTANT + 1).DecodeConstant(MakeData(SIZE_QWORD, 0x12345678))
	assert.NoError(err)
	assert.Equal(OperandAddressConstant(MakeData(SIZE_WORD, 0x5678)), op)

	op, err = (DYNAMIC_ARRAY_AT_OFFSET + 3).DecodeCalculated(Calculated{Base: REG_R0, Offset: MakeData(SIZE_BYTE, 0x7f)})
	assert.NoError(err)
	assert.Equal(OperandArrayAtOffset(Calculated{Base: REG_R0, Offset: MakeData(SIZE_QWORD, 0x7f)}), op)
}

func TestOperandString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("r4", OperandRegister(REG_R4).String())
	assert.Equal("0x10", OperandConstant(MakeData(SIZE_BYTE, 0x10)).String())
	assert.Equal("[bp]", OperandAddressRegister(REG_BP).String())
	assert.Equal("[0x100]", OperandAddressConstant(MakeData(SIZE_WORD, 0x100)).String())
	assert.Equal("[sp+0x8]", OperandArray(Calculated{Base: REG_SP, Offset: MakeData(SIZE_BYTE, 8)}).String())
	assert.Equal("[sp-0x8]", OperandArrayAtOffset(Calculated{Base: REG_SP, Offset: MakeData(SIZE_BYTE, 8)}).String())
}
