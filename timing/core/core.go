// Package core exposes the pipeline driver as a stable public facade: a
// Simulator constructed from a program and a memory size, run to
// completion or stepped one cycle at a time, with read-only accessors for
// its architectural state once it halts.
package core

import (
	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

// Simulator wraps a pipeline.Pipeline behind the external interface: the
// rest of the program talks to Simulator, never to the pipeline package
// directly.
type Simulator struct {
	pipe *pipeline.Pipeline
}

// SafetyCap bounds Run to at most limit cycles, surfacing
// pipeline.ErrSafetyCap instead of looping forever when a program never
// executes HALT. It has no effect on Step, which always advances exactly
// one cycle regardless of the cap.
func SafetyCap(limit uint64) pipeline.Option {
	return pipeline.WithSafetyCap(limit)
}

// New constructs a Simulator over program with a data memory of memWords
// words. If trace is true, one CycleTrace line is logged per Step through
// a logrus-backed sink; otherwise tracing is a no-op. Additional pipeline
// options, such as SafetyCap, may be supplied after the required three
// arguments.
func New(program []insts.Instruction, memWords uint32, trace bool, opts ...pipeline.Option) *Simulator {
	if trace {
		opts = append(opts, pipeline.WithTraceSink(pipeline.NewLogrusTraceSink(nil)))
	}
	return &Simulator{pipe: pipeline.NewPipeline(program, memWords, opts...)}
}

// Run executes until the program halts, or returns ErrSafetyCap if a cap
// was configured and exceeded first.
func (s *Simulator) Run() error {
	return s.pipe.Run()
}

// Step advances the simulation by exactly one clock cycle.
func (s *Simulator) Step() error {
	return s.pipe.Step()
}

// IsHalted reports whether HALT has retired through write-back.
func (s *Simulator) IsHalted() bool {
	return s.pipe.IsHalted()
}

// Cycles returns the total number of clock edges executed so far.
func (s *Simulator) Cycles() uint64 {
	return s.pipe.Cycles()
}

// Stats returns the accumulated cycle/instruction/stall/flush counters.
func (s *Simulator) Stats() pipeline.Statistics {
	return s.pipe.Stats()
}

// Registers returns a snapshot of the 32-register integer file.
func (s *Simulator) Registers() [32]int32 {
	return s.pipe.Registers()
}

// Memory returns a snapshot of the first n words of data memory.
func (s *Simulator) Memory(n uint32) []int32 {
	return s.pipe.Memory(n)
}
