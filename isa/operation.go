package isa

// Extension is a group of related operations.
type Extension int

//go:generate go tool stringer -linecomment -type=Extension
const (
	EXT_BASIC      = Extension(0) // basic
	EXT_ARITHMETIC = Extension(1) // arithmetic
	EXT_LOGIC      = Extension(2) // logic
	EXT_FLOW       = Extension(3) // flow
)

// Arity is the number of assembly operands of an operation.
type Arity int

const (
	ARITY_NONE   = Arity(0) // No operand block.
	ARITY_UNARY  = Arity(1) // Dynamic operand only.
	ARITY_BINARY = Arity(2) // Register and dynamic operand.
)

// Operation is an extension and an operation code within it.
type Operation struct {
	Extension Extension
	Code      uint8
}

var (
	OP_NOP  = Operation{EXT_BASIC, 0}
	OP_HALT = Operation{EXT_BASIC, 1}
	OP_MOV  = Operation{EXT_BASIC, 2}
	OP_CMP  = Operation{EXT_BASIC, 3}

	OP_ADD = Operation{EXT_ARITHMETIC, 0}
	OP_SUB = Operation{EXT_ARITHMETIC, 1}
	OP_MUL = Operation{EXT_ARITHMETIC, 2}
	OP_DIV = Operation{EXT_ARITHMETIC, 3}
	OP_MOD = Operation{EXT_ARITHMETIC, 4}

	OP_AND = Operation{EXT_LOGIC, 0}
	OP_OR  = Operation{EXT_LOGIC, 1}
	OP_XOR = Operation{EXT_LOGIC, 2}
	OP_NOT = Operation{EXT_LOGIC, 3}
	OP_SHL = Operation{EXT_LOGIC, 4}
	OP_SHR = Operation{EXT_LOGIC, 5}

	OP_JMP  = Operation{EXT_FLOW, 0}
	OP_CALL = Operation{EXT_FLOW, 1}
	OP_RET  = Operation{EXT_FLOW, 2}
	OP_JZ   = Operation{EXT_FLOW, 3}
	OP_JNZ  = Operation{EXT_FLOW, 4}
)

type operationInfo struct {
	mnemonic string
	arity    Arity
}

var basicOps = []operationInfo{
	{"nop", ARITY_NONE},
	{"halt", ARITY_NONE},
	{"mov", ARITY_BINARY},
	{"cmp", ARITY_BINARY},
}

var arithmeticOps = []operationInfo{
	{"add", ARITY_BINARY},
	{"sub", ARITY_BINARY},
	{"mul", ARITY_BINARY},
	{"div", ARITY_BINARY},
	{"mod", ARITY_BINARY},
}

var logicOps = []operationInfo{
	{"and", ARITY_BINARY},
	{"or", ARITY_BINARY},
	{"xor", ARITY_BINARY},
	{"not", ARITY_UNARY},
	{"shl", ARITY_BINARY},
	{"shr", ARITY_BINARY},
}

var flowOps = []operationInfo{
	{"jmp", ARITY_UNARY},
	{"call", ARITY_UNARY},
	{"ret", ARITY_NONE},
	{"jz", ARITY_UNARY},
	{"jnz", ARITY_UNARY},
}

// info looks up the operation in its extension's table.
func (op Operation) info() (info operationInfo, err error) {
	var table []operationInfo

	switch op.Extension {
	case EXT_BASIC:
		table = basicOps
	case EXT_ARITHMETIC:
		table = arithmeticOps
	case EXT_LOGIC:
		table = logicOps
	case EXT_FLOW:
		table = flowOps
	default:
		err = ErrOperationCode(op.Encode())
		return
	}

	if int(op.Code) >= len(table) {
		err = ErrOperationCode(op.Encode())
		return
	}

	info = table[op.Code]
	return
}

var operationByMnemonic = func() map[string]Operation {
	ops := map[string]Operation{}
	for ext := EXT_BASIC; ext <= EXT_FLOW; ext++ {
		for code := uint8(0); ; code++ {
			op := Operation{Extension: ext, Code: code}
			info, err := op.info()
			if err != nil {
				break
			}
			ops[info.mnemonic] = op
		}
	}
	return ops
}()

// OperationByMnemonic looks up an operation by its assembly name.
func OperationByMnemonic(name string) (op Operation, ok bool) {
	op, ok = operationByMnemonic[name]
	return
}

// DecodeOperation decodes an operation byte.
func DecodeOperation(value uint8) (op Operation, err error) {
	op = Operation{Extension: Extension(value >> 4), Code: value & 0xf}
	_, err = op.info()
	return
}

// Encode returns the operation byte.
func (op Operation) Encode() uint8 {
	return (uint8(op.Extension) << 4) | (op.Code & 0xf)
}

// Valid returns true for defined operations.
func (op Operation) Valid() bool {
	_, err := op.info()
	return err == nil
}

// Arity returns the number of assembly operands.
func (op Operation) Arity() Arity {
	info, _ := op.info()
	return info.arity
}

// HasOperands returns true if the operation is followed by an operand block.
func (op Operation) HasOperands() bool {
	return op.Arity() != ARITY_NONE
}

func (op Operation) String() string {
	info, err := op.info()
	if err != nil {
		return f("op(0x%02x)", op.Encode())
	}
	return info.mnemonic
}
