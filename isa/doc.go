// Package isa implements the binary instruction format of the fetch front end.
//
// An instruction is an operation byte (extension and code) optionally followed
// by an operand block. The operand block carries an operand size, a static
// register, a dynamic operand selected by a 4-bit dynamic code, and an optional
// external destination operand. Register codes and dynamic codes are both
// nibbles; constants are little-endian.
package isa
