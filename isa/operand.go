package isa

import (
	"fmt"
)

// DynamicCode selects the addressing mode of a dynamic operand.
type DynamicCode uint8

const (
	DYNAMIC_REGISTER         = DynamicCode(0)  // r
	DYNAMIC_CONSTANT         = DynamicCode(1)  // imm
	DYNAMIC_ADDRESS_REGISTER = DynamicCode(2)  // [r]
	DYNAMIC_ADDRESS_CONSTANT = DynamicCode(3)  // [imm], 3..6 by size
	DYNAMIC_ARRAY            = DynamicCode(7)  // [r+imm], 7..10 by size
	DYNAMIC_ARRAY_AT_OFFSET  = DynamicCode(11) // [r-imm], 11..14 by size
	DYNAMIC_RESERVED         = DynamicCode(15)
)

// OperandKind is the variant of a dynamic operand.
type OperandKind int

const (
	OPERAND_REGISTER         = OperandKind(0)
	OPERAND_CONSTANT         = OperandKind(1)
	OPERAND_ADDRESS_REGISTER = OperandKind(2)
	OPERAND_ADDRESS_CONSTANT = OperandKind(3)
	OPERAND_ARRAY            = OperandKind(4)
	OPERAND_ARRAY_AT_OFFSET  = OperandKind(5)
)

// Calculated is a base register plus a sized offset.
type Calculated struct {
	Base   Register
	Offset Data
}

// Operand is a dynamic operand. Register is used by the register, address
// register and array kinds; Constant by the constant, address constant and
// array kinds.
type Operand struct {
	Kind     OperandKind
	Register Register
	Constant Data
}

// OperandRegister is the contents of a register.
func OperandRegister(reg Register) Operand {
	return Operand{Kind: OPERAND_REGISTER, Register: reg}
}

// OperandConstant is an immediate value.
func OperandConstant(value Data) Operand {
	return Operand{Kind: OPERAND_CONSTANT, Constant: value}
}

// OperandAddressRegister is memory addressed by a register.
func OperandAddressRegister(reg Register) Operand {
	return Operand{Kind: OPERAND_ADDRESS_REGISTER, Register: reg}
}

// OperandAddressConstant is memory addressed by a constant.
func OperandAddressConstant(address Data) Operand {
	return Operand{Kind: OPERAND_ADDRESS_CONSTANT, Constant: address}
}

// OperandArray is memory at base plus offset.
func OperandArray(calc Calculated) Operand {
	return Operand{Kind: OPERAND_ARRAY, Register: calc.Base, Constant: calc.Offset}
}

// OperandArrayAtOffset is memory at base minus offset.
func OperandArrayAtOffset(calc Calculated) Operand {
	return Operand{Kind: OPERAND_ARRAY_AT_OFFSET, Register: calc.Base, Constant: calc.Offset}
}

// Calculated returns the base and offset of an array operand.
func (op Operand) Calculated() Calculated {
	return Calculated{Base: op.Register, Offset: op.Constant}
}

// Encode returns the dynamic code of the operand. Address modes carry the
// constant's size in the code.
func (op Operand) Encode() DynamicCode {
	exp := DynamicCode(op.Constant.Size.Exponent())

	switch op.Kind {
	case OPERAND_REGISTER:
		return DYNAMIC_REGISTER
	case OPERAND_CONSTANT:
		return DYNAMIC_CONSTANT
	case OPERAND_ADDRESS_REGISTER:
		return DYNAMIC_ADDRESS_REGISTER
	case OPERAND_ADDRESS_CONSTANT:
		return DYNAMIC_ADDRESS_CONSTANT + exp
	case OPERAND_ARRAY:
		return DYNAMIC_ARRAY + exp
	case OPERAND_ARRAY_AT_OFFSET:
		return DYNAMIC_ARRAY_AT_OFFSET + exp
	}

	return DYNAMIC_RESERVED
}

func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REGISTER:
		return op.Register.String()
	case OPERAND_CONSTANT:
		return op.Constant.String()
	case OPERAND_ADDRESS_REGISTER:
		return fmt.Sprintf("[%v]", op.Register)
	case OPERAND_ADDRESS_CONSTANT:
		return fmt.Sprintf("[%v]", op.Constant)
	case OPERAND_ARRAY:
		return fmt.Sprintf("[%v+%v]", op.Register, op.Constant)
	case OPERAND_ARRAY_AT_OFFSET:
		return fmt.Sprintf("[%v-%v]", op.Register, op.Constant)
	}

	return fmt.Sprintf("Operand(%d)", int(op.Kind))
}

// Requirement describes the raw fields a dynamic code needs from the stream.
// If Fixed is set, the constant is always Size wide; otherwise it is as wide
// as the operand block.
type Requirement struct {
	Register bool
	Constant bool
	Fixed    bool
	Size     Size
}

// ConstantSize returns the width of the constant for a block of size nominal.
func (req Requirement) ConstantSize(nominal Size) Size {
	if req.Fixed {
		return req.Size
	}
	return nominal
}

// Valid returns true if the code is not reserved.
func (code DynamicCode) Valid() bool {
	return code < DYNAMIC_RESERVED
}

// forced returns the constant size selected by an address mode code.
func (code DynamicCode) forced(base DynamicCode) Size {
	return Size(code - base)
}

// Requirement returns the fields needed to decode an operand of this code.
func (code DynamicCode) Requirement() (req Requirement, err error) {
	switch {
	case code == DYNAMIC_REGISTER, code == DYNAMIC_ADDRESS_REGISTER:
		req = Requirement{Register: true}
	case code == DYNAMIC_CONSTANT:
		req = Requirement{Constant: true}
	case code >= DYNAMIC_ADDRESS_CONSTANT && code < DYNAMIC_ARRAY:
		req = Requirement{Constant: true, Fixed: true, Size: code.forced(DYNAMIC_ADDRESS_CONSTANT)}
	case code >= DYNAMIC_ARRAY && code < DYNAMIC_ARRAY_AT_OFFSET:
		req = Requirement{Register: true, Constant: true, Fixed: true, Size: code.forced(DYNAMIC_ARRAY)}
	case code >= DYNAMIC_ARRAY_AT_OFFSET && code < DYNAMIC_RESERVED:
		req = Requirement{Register: true, Constant: true, Fixed: true, Size: code.forced(DYNAMIC_ARRAY_AT_OFFSET)}
	default:
		err = ErrDynamicCode(code)
	}
	return
}

// DecodeRegister decodes a code that requires only a register.
func (code DynamicCode) DecodeRegister(reg Register) (op Operand, err error) {
	switch code {
	case DYNAMIC_REGISTER:
		op = OperandRegister(reg)
	case DYNAMIC_ADDRESS_REGISTER:
		op = OperandAddressRegister(reg)
	default:
		err = ErrDynamicCode(code)
	}
	return
}

// DecodeConstant decodes a code that requires only a constant. Address
// constants are resized to the size forced by the code.
func (code DynamicCode) DecodeConstant(constant Data) (op Operand, err error) {
	switch {
	case code == DYNAMIC_CONSTANT:
		op = OperandConstant(constant)
	case code >= DYNAMIC_ADDRESS_CONSTANT && code < DYNAMIC_ARRAY:
		op = OperandAddressConstant(constant.Resize(code.forced(DYNAMIC_ADDRESS_CONSTANT)))
	default:
		err = ErrDynamicCode(code)
	}
	return
}

// DecodeCalculated decodes a code that requires both a register and a
// constant. The offset is resized to the size forced by the code.
func (code DynamicCode) DecodeCalculated(calc Calculated) (op Operand, err error) {
	switch {
	case code >= DYNAMIC_ARRAY && code < DYNAMIC_ARRAY_AT_OFFSET:
		calc.Offset = calc.Offset.Resize(code.forced(DYNAMIC_ARRAY))
		op = OperandArray(calc)
	case code >= DYNAMIC_ARRAY_AT_OFFSET && code < DYNAMIC_RESERVED:
		calc.Offset = calc.Offset.Resize(code.forced(DYNAMIC_ARRAY_AT_OFFSET))
		op = OperandArrayAtOffset(calc)
	default:
		err = ErrDynamicCode(code)
	}
	return
}

// Decode dispatches to the decode function matching the code's requirement.
func (code DynamicCode) Decode(reg Register, constant Data) (op Operand, err error) {
	req, err := code.Requirement()
	if err != nil {
		return
	}

	switch {
	case req.Register && req.Constant:
		op, err = code.DecodeCalculated(Calculated{Base: reg, Offset: constant})
	case req.Register:
		op, err = code.DecodeRegister(reg)
	default:
		op, err = code.DecodeConstant(constant)
	}
	return
}
