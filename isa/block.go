package isa

import (
	"errors"
	"io"
)

// Destination selects which operand receives the result.
type Destination int

const (
	DESTINATION_REGISTER = Destination(0) // Static register.
	DESTINATION_DYNAMIC  = Destination(1) // Dynamic operand.
	DESTINATION_EXTERNAL = Destination(2) // External operand.
)

// Operand block meta byte layout.
const (
	META_SIZE_SHIFT    = 6
	META_DYNAMIC_FLAG  = 1 << 5
	META_CODE_SHIFT    = 1
	META_CODE_MASK     = 0xf
	META_EXTERNAL_FLAG = 1 << 0
)

// OperandBlock is the operand record of an instruction.
type OperandBlock struct {
	Size        Size
	Destination Destination
	Register    Register
	Dynamic     Operand
	External    Operand // Only meaningful for DESTINATION_EXTERNAL.
}

// Segmented returns true if the block carries an external destination.
func (blk OperandBlock) Segmented() bool {
	return blk.Destination == DESTINATION_EXTERNAL
}

// operandLen is the number of constant bytes an operand adds.
func operandLen(op Operand, nominal Size) (count int, err error) {
	req, err := op.Encode().Requirement()
	if err != nil {
		return
	}
	if req.Constant {
		count = req.ConstantSize(nominal).Bytes()
	}
	return
}

// Len returns the encoded length of the block.
func (blk OperandBlock) Len() int {
	count := 2
	n, _ := operandLen(blk.Dynamic, blk.Size)
	count += n
	if blk.Segmented() {
		n, _ = operandLen(blk.External, blk.Size)
		count += 1 + n
	}
	return count
}

// appendOperand appends the optional constant of an operand, and returns the
// register nibble the operand contributes.
func appendOperand(buf []byte, op Operand, nominal Size) (out []byte, nibble uint8, err error) {
	out = buf

	if op.Kind < OPERAND_REGISTER || op.Kind > OPERAND_ARRAY_AT_OFFSET {
		err = ErrOperandKind
		return
	}

	code := op.Encode()
	req, err := code.Requirement()
	if err != nil {
		return
	}

	if req.Register {
		if !op.Register.Valid() {
			err = ErrRegisterCode(op.Register)
			return
		}
		nibble = op.Register.Encode()
	}

	if req.Constant {
		size := req.ConstantSize(nominal)
		if op.Constant.Value&^size.Mask() != 0 {
			err = ErrConstantOverflow
			return
		}
		out = op.Constant.Resize(size).AppendBytes(out)
	}

	return
}

// AppendBinary appends the encoded block to buf.
func (blk OperandBlock) AppendBinary(buf []byte) (out []byte, err error) {
	out = buf

	if !blk.Size.Valid() {
		err = ErrSizeCode(blk.Size)
		return
	}
	if !blk.Register.Valid() {
		err = ErrRegisterCode(blk.Register)
		return
	}

	meta := blk.Size.Exponent() << META_SIZE_SHIFT
	meta |= uint8(blk.Dynamic.Encode()) << META_CODE_SHIFT
	switch blk.Destination {
	case DESTINATION_REGISTER:
	case DESTINATION_DYNAMIC:
		meta |= META_DYNAMIC_FLAG
	case DESTINATION_EXTERNAL:
		meta |= META_EXTERNAL_FLAG
	default:
		err = ErrDestination(blk.Destination)
		return
	}

	constant, nibble, err := appendOperand(nil, blk.Dynamic, blk.Size)
	if err != nil {
		return
	}

	out = append(out, meta, Dual{First: blk.Register, Second: Register(nibble)}.Encode())
	out = append(out, constant...)

	if blk.Segmented() {
		constant, nibble, err = appendOperand(nil, blk.External, blk.Size)
		if err != nil {
			return buf, err
		}
		out = append(out, (nibble<<4)|uint8(blk.External.Encode()))
		out = append(out, constant...)
	}

	return
}

// Encode writes the encoded block.
func (blk OperandBlock) Encode(w io.Writer) (err error) {
	buf, err := blk.AppendBinary(nil)
	if err != nil {
		return
	}

	_, err = w.Write(buf)
	return
}

// readOperand reads the constant required by code, and decodes the operand.
func readOperand(r io.Reader, code DynamicCode, reg Register, nominal Size) (op Operand, err error) {
	req, err := code.Requirement()
	if err != nil {
		return
	}

	var constant Data
	if req.Constant {
		constant, err = ReadData(r, req.ConstantSize(nominal))
		if err != nil {
			return
		}
	}

	return code.Decode(reg, constant)
}

// DecodeOperandBlock reads an operand block. A stream that ends before the
// first byte returns io.EOF; one that ends inside the block returns
// io.ErrUnexpectedEOF.
func DecodeOperandBlock(r io.Reader) (blk OperandBlock, err error) {
	var head [2]byte
	_, err = io.ReadFull(r, head[:])
	if err != nil {
		return
	}

	meta := head[0]
	regs := DecodeDual(head[1])

	blk.Size = Size(meta >> META_SIZE_SHIFT)
	blk.Register = regs.First

	switch {
	case meta&META_DYNAMIC_FLAG != 0 && meta&META_EXTERNAL_FLAG != 0:
		err = ErrDestination(meta)
		return
	case meta&META_DYNAMIC_FLAG != 0:
		blk.Destination = DESTINATION_DYNAMIC
	case meta&META_EXTERNAL_FLAG != 0:
		blk.Destination = DESTINATION_EXTERNAL
	default:
		blk.Destination = DESTINATION_REGISTER
	}

	code := DynamicCode((meta >> META_CODE_SHIFT) & META_CODE_MASK)
	blk.Dynamic, err = readOperand(r, code, regs.Second, blk.Size)
	if err != nil {
		err = unexpected(err)
		return
	}

	if blk.Segmented() {
		var ext [1]byte
		_, err = io.ReadFull(r, ext[:])
		if err != nil {
			err = unexpected(err)
			return
		}
		pair := DecodeDual(ext[0])
		blk.External, err = readOperand(r, DynamicCode(pair.Second), pair.First, blk.Size)
		if err != nil {
			err = unexpected(err)
			return
		}
	}

	return
}

// unexpected promotes io.EOF to io.ErrUnexpectedEOF for reads past the first
// byte of a record.
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
