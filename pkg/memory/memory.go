// Package memory implements the Intcode address space: a zero-initialized
// mapping from non-negative address to Word that grows as the program
// writes beyond its loaded image. pkg/vm's operand load/store rejects
// negative addresses before reaching this package (its MemoryRead and
// MemoryWrite pokes do not check); Memory itself assumes addr >= 0,
// matching the growable-vector option from the design notes rather
// than a sparse map, since Intcode programs tend to
// write a dense run of addresses just past the image (relative-mode
// scratch space).
package memory

import "github.com/cirrusnet/intcode/pkg/word"

// Memory is the flat, growable address space backing one Machine.
type Memory struct {
	cells []word.Word
}

// New copies image into a fresh Memory starting at address 0.
func New(image []word.Word) *Memory {
	cells := make([]word.Word, len(image))
	copy(cells, image)
	return &Memory{cells: cells}
}

// Read returns the value at addr, or 0 if addr has never been written.
// addr must be non-negative.
func (m *Memory) Read(addr word.Word) word.Word {
	if addr >= word.Word(len(m.cells)) {
		return 0
	}
	return m.cells[addr]
}

// Write stores value at addr, extending the address space with zeros if
// necessary. addr must be non-negative.
func (m *Memory) Write(addr word.Word, value word.Word) {
	if addr >= word.Word(len(m.cells)) {
		grown := make([]word.Word, addr+1)
		copy(grown, m.cells)
		m.cells = grown
	}
	m.cells[addr] = value
}

// Len reports the current size of the backing store, i.e. one past the
// highest address loaded from the image or ever written (reads do not
// grow it). It is exposed for drivers that
// dump memory for debugging; it is not part of the addressing contract.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Snapshot returns a copy of the current contents, addresses 0..Len()-1.
func (m *Memory) Snapshot() []word.Word {
	out := make([]word.Word, len(m.cells))
	copy(out, m.cells)
	return out
}
