// Package memory implements the flat byte-addressable store of the LS-8.
//
// The store has exactly SIZE cells. A cell that has never been written is
// unset, and reading it is an error rather than a value.
package memory

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

const (
	SIZE = 256 // Number of addressable cells.
)

var _memory_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", SIZE),
	"MEMORY_LAST": fmt.Sprintf("%#x", SIZE-1),
}

// Memory is the LS-8 main store.
type Memory struct {
	cell  [SIZE]uint8
	valid [SIZE]bool
}

// NewMemory returns an empty memory, with every cell unset.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	return
}

// Defines for the memory
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Len returns the number of cells.
func (mem *Memory) Len() int {
	return SIZE
}

// Reset returns every cell to the unset state.
func (mem *Memory) Reset() {
	clear(mem.cell[:])
	clear(mem.valid[:])
}

// check validates an address.
func check(addr int) (err error) {
	if addr < 0 || addr >= SIZE {
		err = &ErrAddress{Addr: addr, Err: ErrAddressOutOfRange}
	}
	return
}

// IsSet returns true if the cell at addr has been written.
func (mem *Memory) IsSet(addr int) bool {
	if check(addr) != nil {
		return false
	}
	return mem.valid[addr]
}

// Read returns the value of the cell at addr.
func (mem *Memory) Read(addr int) (value uint8, err error) {
	err = check(addr)
	if err != nil {
		return
	}

	if !mem.valid[addr] {
		err = &ErrAddress{Addr: addr, Err: ErrUninitializedMemoryRead}
		return
	}

	value = mem.cell[addr]
	return
}

// Write sets the cell at addr to value.
func (mem *Memory) Write(addr int, value uint8) (err error) {
	err = check(addr)
	if err != nil {
		return
	}

	mem.cell[addr] = value
	mem.valid[addr] = true
	return
}

// Dump renders the memory as a hex dump, 16 cells per row.
// Unset cells are shown as '--'. Rows that are entirely unset are skipped.
func (mem *Memory) Dump() (text string) {
	var sb strings.Builder

	for row := 0; row < SIZE; row += 16 {
		used := false
		for n := range 16 {
			used = used || mem.valid[row+n]
		}
		if !used {
			continue
		}
		fmt.Fprintf(&sb, "%02X:", row)
		for n := range 16 {
			if mem.valid[row+n] {
				fmt.Fprintf(&sb, " %02X", mem.cell[row+n])
			} else {
				sb.WriteString(" --")
			}
		}
		sb.WriteString("\n")
	}

	text = sb.String()
	return
}
