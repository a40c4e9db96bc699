package memory

import (
	"fmt"
	"iter"
	"maps"
)

const (
	PAGE_ITEM_BITS = 12                  // Item offset bits of a virtual address.
	PAGE_SIZE      = 1 << PAGE_ITEM_BITS // Bytes per page.
)

var _memory_defines = map[string]string{
	"PAGE_ITEM_BITS": fmt.Sprintf("%d", PAGE_ITEM_BITS),
	"PAGE_SIZE":      fmt.Sprintf("%d", PAGE_SIZE),
}

// Defines returns the assembler predefines of the memory system.
func Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Mapping maps a virtual page number to a physical page number.
type Mapping struct {
	Virtual  uint64
	Physical uint64
}

// PageTable is an ordered list of page mappings. A page is remapped by
// inserting a newer mapping; the most recent mapping for a page wins.
type PageTable struct {
	ItemBits uint      // Item offset bits; zero selects PAGE_ITEM_BITS.
	Mappings []Mapping // Mappings in insertion order.
}

// NewPageTable creates a page table with the default page size.
func NewPageTable(mappings ...Mapping) *PageTable {
	return &PageTable{Mappings: mappings}
}

// Bits returns the number of item offset bits.
func (pt *PageTable) Bits() uint {
	if pt.ItemBits == 0 {
		return PAGE_ITEM_BITS
	}
	return pt.ItemBits
}

// PageSize returns the number of bytes per page.
func (pt *PageTable) PageSize() uint64 {
	return uint64(1) << pt.Bits()
}

// Map inserts a mapping, shadowing any earlier mapping of the same page.
func (pt *PageTable) Map(virtual, physical uint64) {
	pt.Mappings = append(pt.Mappings, Mapping{Virtual: virtual, Physical: physical})
}

// Lookup returns the physical page of a virtual page.
func (pt *PageTable) Lookup(page uint64) (physical uint64, ok bool) {
	for n := len(pt.Mappings) - 1; n >= 0; n-- {
		if pt.Mappings[n].Virtual == page {
			return pt.Mappings[n].Physical, true
		}
	}
	return
}

// Translate rewrites a virtual address to a physical address, preserving the
// item offset.
func (pt *PageTable) Translate(address uint64) (physical uint64, err error) {
	bits := pt.Bits()
	item := address & (pt.PageSize() - 1)

	page, ok := pt.Lookup(address >> bits)
	if !ok {
		err = ErrPage(address)
		return
	}

	physical = (page << bits) | item
	return
}
