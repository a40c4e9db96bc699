package core

import (
	"github.com/ezrec/ifetch/memory"
)

// Privilege is the privilege level of an execution context.
type Privilege int

//go:generate go tool stringer -linecomment -type=Privilege
const (
	PRIVILEGE_SUPERVISOR = Privilege(0) // supervisor
	PRIVILEGE_USER       = Privilege(1) // user
)

// Context is the part of an execution context the decode step consumes.
type Context struct {
	Ip        uint64            // Instruction pointer.
	Privilege Privilege         // Privilege level.
	Table     *memory.PageTable // Page table used in restricted mode.
}

// Restricted returns true if instruction fetch goes through the page table.
func (ctx Context) Restricted() bool {
	return ctx.Privilege != PRIVILEGE_SUPERVISOR
}
