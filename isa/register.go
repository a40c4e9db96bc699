package isa

// Register is an architectural register.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A   = Register(0)  // a
	REG_SP  = Register(1)  // sp
	REG_BP  = Register(2)  // bp
	REG_I0  = Register(3)  // i0
	REG_I1  = Register(4)  // i1
	REG_R0  = Register(5)  // r0
	REG_R1  = Register(6)  // r1
	REG_R2  = Register(7)  // r2
	REG_R3  = Register(8)  // r3
	REG_R4  = Register(9)  // r4
	REG_R5  = Register(10) // r5
	REG_R6  = Register(11) // r6
	REG_R7  = Register(12) // r7
	REG_R8  = Register(13) // r8
	REG_R9  = Register(14) // r9
	REG_R10 = Register(15) // r10
)

const REGISTER_COUNT = 16 // One register per nibble value.

var registerByName = func() map[string]Register {
	names := make(map[string]Register, REGISTER_COUNT)
	for code := range REGISTER_COUNT {
		names[Register(code).String()] = Register(code)
	}
	return names
}()

// RegisterByName looks up a register by its assembly name.
func RegisterByName(name string) (reg Register, ok bool) {
	reg, ok = registerByName[name]
	return
}

// DecodeRegister returns the register for a code.
func DecodeRegister(code uint8) (reg Register, err error) {
	if code >= REGISTER_COUNT {
		err = ErrRegisterCode(code)
		return
	}

	reg = Register(code)
	return
}

// Valid returns true if the register has a code.
func (reg Register) Valid() bool {
	return reg >= REG_A && reg < REGISTER_COUNT
}

// Encode returns the 4-bit register code.
func (reg Register) Encode() uint8 {
	return uint8(reg) & 0xf
}

// Dual is a pair of registers packed into a single byte, first register in
// the high nibble.
type Dual struct {
	First  Register
	Second Register
}

// DecodeDual unpacks a register pair. Every nibble is a register, so this
// cannot fail.
func DecodeDual(value uint8) Dual {
	return Dual{
		First:  Register(value >> 4),
		Second: Register(value & 0xf),
	}
}

// Encode packs the register pair.
func (dual Dual) Encode() uint8 {
	return (dual.First.Encode() << 4) | dual.Second.Encode()
}
