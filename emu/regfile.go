// Package emu provides the architectural state the pipeline operates on:
// the register file and the word-addressable data memory.
package emu

// RegFile is the architectural register file: 32 signed 32-bit general
// purpose registers. Register 0 is hard-wired to zero — reads always
// return 0 and writes are silently dropped.
type RegFile struct {
	regs [32]int32
}

// Read returns the current contents of register i, or 0 if i is 0.
func (r *RegFile) Read(i uint8) int32 {
	if i == 0 {
		return 0
	}
	return r.regs[i]
}

// Write overwrites register i with v. A write to register 0 is a no-op.
func (r *RegFile) Write(i uint8, v int32) {
	if i == 0 {
		return
	}
	r.regs[i] = v
}

// Snapshot returns a read-only copy of all 32 registers, for external
// inspection once the pipeline has halted or between step calls.
func (r *RegFile) Snapshot() [32]int32 {
	return r.regs
}
