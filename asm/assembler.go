// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ifetch/internal"
	"github.com/ezrec/ifetch/isa"
	"github.com/ezrec/ifetch/memory"
)

// Predefined system equates
var sysEquate = internal.IterSeq2Collect(internal.IterSeq2Concat(
	maps.All(map[string]string{"LINENO": "0"}),
	isa.Defines(),
	memory.Defines(),
))

var (
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// Assembler is a single pass assembler with a final link of label
// references.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]uint64 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	address uint64 // Address of the next opcode.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// resolve replaces an equate by its value.
func (asm *Assembler) resolve(word string) string {
	equate, ok := asm.Equate[word]
	if ok {
		return equate
	}
	return word
}

// valueOf returns the value of a numeric word.
func (asm *Assembler) valueOf(word string) (value uint64, ok bool) {
	word = asm.resolve(word)
	if len(word) == 0 {
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}

	value, err := strconv.ParseUint(word, 0, 64)
	if err != nil {
		var v64 int64
		v64, err = strconv.ParseInt(word, 0, 64)
		if err != nil {
			return
		}
		value = uint64(v64)
	}

	if invert {
		value = ^value
	}

	ok = true
	return
}

// registerOf returns the register named by a word.
func (asm *Assembler) registerOf(word string) (reg isa.Register, ok bool) {
	return isa.RegisterByName(asm.resolve(word))
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		v, ok := asm.valueOf(key)
		if !ok {
			// Registers and other non-integer equates.
			continue
		}
		pred[key] = starlark.MakeUint64(v)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeUint64(address)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	if st_uint64, ok := st_int.Uint64(); ok {
		value = st_uint64
		return
	}

	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint64(st_int64)
	return
}

// expand performs character and $(...) substitutions.
func (asm *Assembler) expand(line string) (out string, err error) {
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\x00"
			default:
				err = ErrParseCharacter(str)
				return word
			}
		}
		return fmt.Sprintf("%d", str[0])
	})
	if err != nil {
		return
	}

	out = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = map[string]uint64{}
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)
	asm.address = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(strings.SplitN(text, ";", 2)[0])

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	line = ""

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		address, ok := asm.Label[op.LinkLabel]
		if !ok {
			lineno, line = op.LineNo, strings.Join(op.Words, " ")
			err = ErrLabelMissing(op.LinkLabel)
			return
		}

		op.link(address)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseLine parses a single line of assembly text.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line, err = asm.expand(line)
	if err != nil {
		return
	}

	words := strings.Fields(line)

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrParseValue(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.address
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".equ":
		// .equ CONST VALUE
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	case ".org":
		// .org ADDRESS
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		address, ok := asm.valueOf(words[1])
		if !ok {
			err = ErrOrgSyntax
			return
		}
		if address < asm.address {
			err = ErrOrgBackwards
			return
		}
		asm.address = address
		return
	}

	op, err := asm.parseWords(words)
	if err != nil {
		return
	}

	op.LineNo = lineno
	op.Address = asm.address
	op.Words = words

	// Check the encoding now, while the line is known.
	_, err = op.Instruction.AppendBinary(nil)
	if err != nil {
		return
	}

	asm.Opcode = append(asm.Opcode, op)
	asm.address += uint64(op.Len())

	return
}

// parseMnemonic splits "name.size" into its operation and size.
func parseMnemonic(word string) (op isa.Operation, size isa.Size, err error) {
	name, suffix, sized := strings.Cut(word, ".")

	op, ok := isa.OperationByMnemonic(name)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	size = isa.SIZE_QWORD
	if sized {
		switch suffix {
		case isa.SIZE_BYTE.String():
			size = isa.SIZE_BYTE
		case isa.SIZE_WORD.String():
			size = isa.SIZE_WORD
		case isa.SIZE_DWORD.String():
			size = isa.SIZE_DWORD
		case isa.SIZE_QWORD.String():
			size = isa.SIZE_QWORD
		default:
			err = ErrSizeInvalid
		}
	}

	return
}

// parseOperand parses a dynamic or external operand. Label references
// return the label, with a zero constant as wide as any address.
func (asm *Assembler) parseOperand(word string, nominal isa.Size) (op isa.Operand, label string, err error) {
	constant := func(word string, size isa.Size) (data isa.Data, label string, err error) {
		value, ok := asm.valueOf(word)
		switch {
		case ok:
			if size < 0 {
				size = isa.SizeFit(value)
			}
			data = isa.MakeData(size, value)
		case reLabel.MatchString(word):
			if size < 0 {
				size = isa.SIZE_QWORD
			}
			label = word
			data = isa.MakeData(size, 0)
		default:
			err = ErrParseValue(word)
		}
		return
	}

	if !strings.HasPrefix(word, "[") {
		if reg, ok := asm.registerOf(word); ok {
			op = isa.OperandRegister(reg)
			return
		}
		var data isa.Data
		data, label, err = constant(word, nominal)
		op = isa.OperandConstant(data)
		return
	}

	if !strings.HasSuffix(word, "]") {
		err = ErrParseValue(word)
		return
	}
	inner := word[1 : len(word)-1]

	split := strings.IndexAny(inner[min(1, len(inner)):], "+-") + 1
	if split == 0 {
		if reg, ok := asm.registerOf(inner); ok {
			op = isa.OperandAddressRegister(reg)
			return
		}
		var data isa.Data
		data, label, err = constant(inner, -1)
		op = isa.OperandAddressConstant(data)
		return
	}

	base, ok := asm.registerOf(inner[:split])
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	calc := isa.Calculated{Base: base}
	calc.Offset, label, err = constant(inner[split+1:], -1)
	if err != nil {
		return
	}

	if inner[split] == '+' {
		op = isa.OperandArray(calc)
	} else {
		op = isa.OperandArrayAtOffset(calc)
	}

	return
}

// parseWords assembles the words of one instruction.
func (asm *Assembler) parseWords(words []string) (op Opcode, err error) {
	inst := &op.Instruction

	inst.Operation, inst.Operands.Size, err = parseMnemonic(words[0])
	if err != nil {
		return
	}

	var args []string
	if len(words) > 1 {
		args = strings.Split(strings.Join(words[1:], ""), ",")
	}

	blk := &inst.Operands

	switch inst.Operation.Arity() {
	case isa.ARITY_NONE:
		if len(args) > 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		inst.Operands = isa.OperandBlock{}
	case isa.ARITY_UNARY:
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		blk.Dynamic, op.LinkLabel, err = asm.parseOperand(args[0], blk.Size)
		op.Link = LINK_DYNAMIC
	case isa.ARITY_BINARY:
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 3 {
			err = ErrOpcodeExtraArgs
			return
		}
		err = asm.parseBinary(&op, args)
	}

	if len(op.LinkLabel) == 0 {
		op.Link = LINK_NONE
	}

	return
}

// parseBinary assembles the operands of a two or three operand instruction.
//
//	op REG, DYN             ; register destination
//	op DYN, REG             ; dynamic destination
//	op EXT, REG, DYN        ; external destination
func (asm *Assembler) parseBinary(op *Opcode, args []string) (err error) {
	blk := &op.Instruction.Operands

	var label string

	if len(args) == 3 {
		reg, ok := asm.registerOf(args[1])
		if !ok {
			err = ErrTargetInvalid
			return
		}
		blk.Destination = isa.DESTINATION_EXTERNAL
		blk.Register = reg

		blk.External, label, err = asm.parseOperand(args[0], blk.Size)
		if err != nil {
			return
		}
		if len(label) > 0 {
			op.LinkLabel, op.Link = label, LINK_EXTERNAL
		}

		blk.Dynamic, label, err = asm.parseOperand(args[2], blk.Size)
		if err != nil {
			return
		}
		if len(label) > 0 {
			if len(op.LinkLabel) > 0 {
				err = ErrOpcodeExtraArgs
				return
			}
			op.LinkLabel, op.Link = label, LINK_DYNAMIC
		}
		return
	}

	if reg, ok := asm.registerOf(args[0]); ok {
		blk.Destination = isa.DESTINATION_REGISTER
		blk.Register = reg
		blk.Dynamic, label, err = asm.parseOperand(args[1], blk.Size)
	} else if reg, ok := asm.registerOf(args[1]); ok {
		blk.Destination = isa.DESTINATION_DYNAMIC
		blk.Register = reg
		blk.Dynamic, label, err = asm.parseOperand(args[0], blk.Size)
	} else {
		err = ErrTargetInvalid
	}
	if err != nil {
		return
	}

	if len(label) > 0 {
		op.LinkLabel, op.Link = label, LINK_DYNAMIC
	}

	return
}
