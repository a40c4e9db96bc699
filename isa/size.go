package isa

// Size is the width of an operand or memory access.
type Size int

//go:generate go tool stringer -linecomment -type=Size
const (
	SIZE_BYTE  = Size(0) // b
	SIZE_WORD  = Size(1) // w
	SIZE_DWORD = Size(2) // d
	SIZE_QWORD = Size(3) // q
)

const SIZE_EXPONENT_MASK = 0x3 // Sizes are encoded as a 2-bit exponent.

// SizeFromExponent returns the size for a 2-bit exponent.
func SizeFromExponent(exp uint8) (size Size, err error) {
	if exp > SIZE_EXPONENT_MASK {
		err = ErrSizeCode(exp)
		return
	}

	size = Size(exp)
	return
}

// SizeFromBytes returns the size for a byte count of 1, 2, 4 or 8.
func SizeFromBytes(count int) (size Size, err error) {
	switch count {
	case 1:
		size = SIZE_BYTE
	case 2:
		size = SIZE_WORD
	case 4:
		size = SIZE_DWORD
	case 8:
		size = SIZE_QWORD
	default:
		err = ErrSizeCode(count)
	}
	return
}

// SizeFit returns the smallest size that holds value.
func SizeFit(value uint64) Size {
	switch {
	case value <= 0xff:
		return SIZE_BYTE
	case value <= 0xffff:
		return SIZE_WORD
	case value <= 0xffffffff:
		return SIZE_DWORD
	default:
		return SIZE_QWORD
	}
}

// Valid returns true if the size is one of the four defined sizes.
func (size Size) Valid() bool {
	return size >= SIZE_BYTE && size <= SIZE_QWORD
}

// Exponent returns the 2-bit wire representation.
func (size Size) Exponent() uint8 {
	return uint8(size) & SIZE_EXPONENT_MASK
}

// Bytes returns the byte count.
func (size Size) Bytes() int {
	return 1 << size.Exponent()
}

// Bits returns the bit count.
func (size Size) Bits() int {
	return size.Bytes() * 8
}

// Mask returns a mask of the bits of a value of this size.
func (size Size) Mask() uint64 {
	if size.Exponent() == uint8(SIZE_QWORD) {
		return ^uint64(0)
	}
	return (uint64(1) << size.Bits()) - 1
}
