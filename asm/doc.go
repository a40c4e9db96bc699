// Package asm is a line assembler and disassembler for the ifetch
// instruction set.
//
// Each line holds optional labels, then a directive or an instruction:
//
//	start:  mov.w a, [r1+0x4]   ; comment
//	        add.q [0x100], a, r1
//	        jmp start
//	        .equ  STACK sp
//	        .org  0x100
//
// Values may be computed at assembly time with $(expr), where expr is a
// starlark expression over the integer equates.
package asm
