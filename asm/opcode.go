package asm

import (
	"github.com/ezrec/ifetch/isa"
)

// Link selects the operand whose constant is patched with a label address.
type Link int

const (
	LINK_NONE     = Link(0)
	LINK_DYNAMIC  = Link(1) // Operands.Dynamic
	LINK_EXTERNAL = Link(2) // Operands.External
)

// Opcode is one assembled instruction and the source it came from.
type Opcode struct {
	LineNo      int             // Source line number.
	Address     uint64          // Address of the encoded instruction.
	Words       []string        // Source words.
	Instruction isa.Instruction // Assembled instruction.
	LinkLabel   string          // Label to resolve, if any.
	Link        Link            // Operand that receives the label address.
}

// Len returns the encoded length of the opcode.
func (op *Opcode) Len() int {
	return op.Instruction.Len()
}

// link patches the label address into the linked operand.
func (op *Opcode) link(address uint64) {
	var operand *isa.Operand
	switch op.Link {
	case LINK_DYNAMIC:
		operand = &op.Instruction.Operands.Dynamic
	case LINK_EXTERNAL:
		operand = &op.Instruction.Operands.External
	default:
		return
	}

	operand.Constant = isa.MakeData(operand.Constant.Size, address)
}
