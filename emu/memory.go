package emu

import "fmt"

// AlignmentError reports a memory access whose byte address is not a
// multiple of 4.
type AlignmentError struct {
	Addr  uint32
	Cycle uint64
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("memory: unaligned access at 0x%08x (cycle %d)", e.Addr, e.Cycle)
}

// BoundsError reports a memory access whose word index falls outside the
// memory's configured capacity.
type BoundsError struct {
	Addr  uint32
	Words uint32
	Cycle uint64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("memory: address 0x%08x out of bounds (capacity %d words, cycle %d)", e.Addr, e.Words, e.Cycle)
}

// Memory is a fixed-size, word-addressable data memory. It holds W signed
// 32-bit words (byte capacity 4W) and only accepts word-aligned byte
// addresses in [0, 4W).
type Memory struct {
	words []int32
}

// NewMemory constructs a zero-initialized memory of the given word
// capacity.
func NewMemory(words uint32) *Memory {
	return &Memory{words: make([]int32, words)}
}

// Words reports the memory's capacity in 32-bit words.
func (m *Memory) Words() uint32 {
	return uint32(len(m.words))
}

// LoadWord reads the word at the given byte address. cycle is carried
// through into any returned error purely for diagnostics.
func (m *Memory) LoadWord(addr uint32, cycle uint64) (int32, error) {
	idx, err := m.index(addr, cycle)
	if err != nil {
		return 0, err
	}
	return m.words[idx], nil
}

// StoreWord overwrites the word at the given byte address.
func (m *Memory) StoreWord(addr uint32, value int32, cycle uint64) error {
	idx, err := m.index(addr, cycle)
	if err != nil {
		return err
	}
	m.words[idx] = value
	return nil
}

func (m *Memory) index(addr uint32, cycle uint64) (uint32, error) {
	if addr%4 != 0 {
		return 0, &AlignmentError{Addr: addr, Cycle: cycle}
	}
	idx := addr / 4
	if idx >= uint32(len(m.words)) {
		return 0, &BoundsError{Addr: addr, Words: uint32(len(m.words)), Cycle: cycle}
	}
	return idx, nil
}

// Snapshot returns a read-only copy of the first n words, for the final
// memory dump. If n exceeds the memory's capacity, the whole memory is
// returned.
func (m *Memory) Snapshot(n uint32) []int32 {
	if n > uint32(len(m.words)) {
		n = uint32(len(m.words))
	}
	out := make([]int32, n)
	copy(out, m.words[:n])
	return out
}
