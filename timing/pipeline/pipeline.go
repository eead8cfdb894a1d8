package pipeline

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

// Statistics accumulates the counters exposed through External Interfaces:
// total cycles executed, instructions retired, stall cycles, and flush
// events.
type Statistics struct {
	Cycles       uint64
	Instructions uint64
	Stalls       uint64
	Flushes      uint64
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithTraceSink installs a sink that receives one CycleTrace per Step.
func WithTraceSink(sink TraceSink) Option {
	return func(p *Pipeline) {
		if sink != nil {
			p.trace = sink
		}
	}
}

// WithSafetyCap bounds Run to at most cap cycles, returning ErrSafetyCap if
// the program has not halted by then. A cap of zero (the default) means no
// bound.
func WithSafetyCap(limit uint64) Option {
	return func(p *Pipeline) {
		p.safetyCap = limit
	}
}

// Pipeline drives the five-stage core over a fixed instruction memory and a
// word-addressable data memory. Step evaluates one clock edge: every stage
// reads the latches committed by the previous Step and drafts the next set
// from a single consistent snapshot, so draft order (WB, MEM, EX, ID, IF)
// never observes a partially updated cycle.
type Pipeline struct {
	program []insts.Instruction
	mem     *emu.Memory
	regs    emu.RegFile

	pc uint32

	ifid  IFIDRegister
	idex  IDEXRegister
	exmem EXMEMRegister
	memwb MEMWBRegister

	fwd    *ForwardingUnit
	hazard *HazardUnit
	trace  TraceSink
	stats  Statistics
	halted bool

	safetyCap uint64
}

// NewPipeline constructs a Pipeline over program with a data memory of
// memWords words. All latches start invalid and the PC starts at 0.
func NewPipeline(program []insts.Instruction, memWords uint32, opts ...Option) *Pipeline {
	p := &Pipeline{
		program: program,
		mem:     emu.NewMemory(memWords),
		fwd:     NewForwardingUnit(),
		hazard:  NewHazardUnit(),
		trace:   noopTraceSink{},
	}
	p.idex.C = NopControl()
	p.exmem.C = NopControl()
	p.memwb.C = NopControl()
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsHalted reports whether the HALT instruction has retired through
// write-back. Once true, Step and Run are no-ops.
func (p *Pipeline) IsHalted() bool {
	return p.halted
}

// Cycles returns the number of clock edges executed so far.
func (p *Pipeline) Cycles() uint64 {
	return p.stats.Cycles
}

// Stats returns a copy of the accumulated statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.pc
}

// Registers returns a snapshot of the 32-register integer file.
func (p *Pipeline) Registers() [32]int32 {
	return p.regs.Snapshot()
}

// Memory returns a snapshot of the first n words of data memory.
func (p *Pipeline) Memory(n uint32) []int32 {
	return p.mem.Snapshot(n)
}

// ErrSafetyCap is returned by Run when WithSafetyCap bounds the run and the
// program has not halted within that many cycles.
type ErrSafetyCap struct {
	Cap uint64
}

func (e *ErrSafetyCap) Error() string {
	return "mips5sim: exceeded safety cap before halting"
}

// Run steps the pipeline until it halts, or until the safety cap set by
// WithSafetyCap is reached.
func (p *Pipeline) Run() error {
	for !p.halted {
		if err := p.Step(); err != nil {
			return err
		}
		if p.safetyCap != 0 && p.stats.Cycles >= p.safetyCap && !p.halted {
			return &ErrSafetyCap{Cap: p.safetyCap}
		}
	}
	return nil
}

// Step evaluates one clock edge. Stages are drafted in reverse pipeline
// order — write-back, memory, execute, decode, fetch — from the latches
// committed by the previous Step, then the draft is committed atomically.
// No cycle is idempotent: until the pipeline halts, Step always advances the
// cycle counter, including the cycle HALT itself retires through
// write-back. Once halted, Step returns at once without counting a cycle.
func (p *Pipeline) Step() error {
	if p.halted {
		return nil
	}

	// HALT_COMMITTED: latched here, before write-back runs against the
	// current MEM/WB, and only applied to p.halted after this cycle's
	// commit — so the retiring cycle still counts and still traces.
	halting := p.memwb.Valid && p.memwb.IsHalt()

	if err := p.writeBack(); err != nil {
		return err
	}

	newMemWB, err := p.memoryStage()
	if err != nil {
		return err
	}

	newExMem, flush, redirectPC := p.executeStage()
	stall := p.hazard.LoadUseHazard(&p.idex, p.ifid.Inst.Rs, p.ifid.Inst.Rt)

	// A taken branch or jump resolves in EX, two stages after IF: by the
	// time it resolves, one wrong-path instruction has already advanced
	// into this cycle's decode (drafted below from the pre-commit IF/ID)
	// and another has just been fetched into IF/ID. Both are on the wrong
	// path and must be discarded the same cycle the branch resolves — a
	// flush that only blanks IF/ID lets the already-decoding instruction
	// slip through and retire.
	var newIDEX IDEXRegister
	switch {
	case flush:
		newIDEX.Bubble()
	case stall:
		newIDEX.Bubble()
		p.stats.Stalls++
	default:
		newIDEX = p.decodeStage()
	}

	newIFID, nextPC := p.fetchStage(stall, flush, redirectPC)

	if flush {
		p.stats.Flushes++
	}

	p.memwb = newMemWB
	p.exmem = newExMem
	p.idex = newIDEX
	p.ifid = newIFID
	p.pc = nextPC
	p.stats.Cycles++

	if p.trace != nil {
		p.emitTrace()
	}

	if halting {
		p.halted = true
	}

	return nil
}

// writeBack commits the instruction currently latched in MEM/WB to the
// register file. It runs against the latch state left by the previous
// Step, before this cycle's stages draft their replacements.
func (p *Pipeline) writeBack() error {
	if !p.memwb.Valid || p.memwb.C.IsNOP {
		return nil
	}
	p.stats.Instructions++
	if p.memwb.C.RegWrite && p.memwb.DestReg != 0 {
		p.regs.Write(p.memwb.DestReg, p.memwb.WritebackValue())
	}
	return nil
}

// memoryStage drafts the new MEM/WB latch from the current EX/MEM latch,
// performing the load or store side effect.
func (p *Pipeline) memoryStage() (MEMWBRegister, error) {
	newMemWB := MEMWBRegister{
		Valid:     p.exmem.Valid,
		Op:        p.exmem.Op,
		C:         p.exmem.C,
		ALUResult: p.exmem.ALUResult,
		DestReg:   p.exmem.DestReg,
	}
	if !p.exmem.Valid || p.exmem.C.IsNOP {
		return newMemWB, nil
	}

	if p.exmem.C.MemRead {
		word, err := p.mem.LoadWord(uint32(p.exmem.ALUResult), p.stats.Cycles)
		if err != nil {
			return newMemWB, err
		}
		newMemWB.MemData = word
	}
	if p.exmem.C.MemWrite {
		if err := p.mem.StoreWord(uint32(p.exmem.ALUResult), p.exmem.StoreData, p.stats.Cycles); err != nil {
			return newMemWB, err
		}
	}
	return newMemWB, nil
}

// executeStage drafts the new EX/MEM latch from the current ID/EX latch,
// applying forwarding, running the ALU, and resolving branches and jumps.
// It returns the drafted latch plus whether this cycle flushes IF/ID and,
// if so, the redirect target.
func (p *Pipeline) executeStage() (EXMEMRegister, bool, uint32) {
	newExMem := EXMEMRegister{
		Valid:   p.idex.Valid,
		Op:      p.idex.Op,
		C:       p.idex.C,
		PC:      p.idex.PC,
		DestReg: p.idex.DestReg(),
	}
	if !p.idex.Valid || p.idex.C.IsNOP {
		return newExMem, false, 0
	}

	fwdA, fwdB := p.fwd.Forward(&p.idex, &p.exmem, &p.memwb)

	aluA, aluB := fwdA, fwdB
	if p.idex.C.ALUSrc {
		aluB = p.idex.Imm
	}
	if emu.ALUOp(p.idex.C.ALUOp) == emu.ALUSll || emu.ALUOp(p.idex.C.ALUOp) == emu.ALUSrl {
		// The value shifted is always B (forwarded rt), the shift count is
		// always the immediate — ALUSrc plays no role here.
		aluA, aluB = fwdB, p.idex.Imm
	}

	newExMem.ALUResult = emu.ALU(emu.ALUOp(p.idex.C.ALUOp), aluA, aluB)
	newExMem.StoreData = fwdB

	if p.idex.C.Branch {
		taken := false
		switch p.idex.Op {
		case insts.OpBEQ:
			taken = fwdA == fwdB
		case insts.OpBNE:
			taken = fwdA != fwdB
		}
		newExMem.BranchTaken = taken
		newExMem.BranchTarget = p.idex.PC + 4 + uint32(p.idex.Imm<<2)
	}
	if p.idex.C.Jump {
		newExMem.BranchTaken = true
		newExMem.BranchTarget = (p.idex.PC & 0xF0000000) | (uint32(p.idex.Imm&0x03FFFFFF) << 2)
	}

	flush := newExMem.Valid && (p.idex.C.Branch || p.idex.C.Jump) && newExMem.BranchTaken
	if flush {
		return newExMem, true, newExMem.BranchTarget
	}
	return newExMem, false, 0
}

// decodeStage drafts the new ID/EX latch from the current IF/ID latch.
func (p *Pipeline) decodeStage() IDEXRegister {
	if !p.ifid.Valid {
		var r IDEXRegister
		r.Clear()
		return r
	}

	inst := p.ifid.Inst
	return IDEXRegister{
		Valid: true,
		Op:    inst.Op,
		C:     Decode(inst.Op),
		PC:    p.ifid.PC,
		RsIdx: inst.Rs,
		RtIdx: inst.Rt,
		RdIdx: inst.Rd,
		RsVal: p.regs.Read(inst.Rs),
		RtVal: p.regs.Read(inst.Rt),
		Imm:   immForOp(inst),
	}
}

// immForOp multiplexes the one generic ID/EX immediate slot by opcode: a
// sign-extended 16-bit immediate, a 5-bit shift amount, or the raw 26-bit
// jump word index.
func immForOp(inst insts.Instruction) int32 {
	switch inst.Op {
	case insts.OpJ:
		return int32(inst.Addr & 0x03FFFFFF)
	case insts.OpSLL, insts.OpSRL:
		return int32(inst.Shamt & 0x1F)
	default:
		return int32(inst.Imm)
	}
}

// fetchStage drafts the new IF/ID latch and the next program counter.
//
// A flush discards whatever this cycle would otherwise have fetched (the
// wrong-path instruction speculatively fetched the cycle the branch or
// jump was still in EX) and redirects the PC straight to the resolved
// target; the target instruction itself is fetched the following cycle,
// once the PC has already landed on it. A stall holds IF/ID at its
// current contents so the same instruction is re-presented to decode next
// cycle.
func (p *Pipeline) fetchStage(stall, flush bool, redirectPC uint32) (IFIDRegister, uint32) {
	if flush {
		return IFIDRegister{}, redirectPC
	}
	if stall {
		return p.ifid, p.pc
	}

	idx := p.pc / 4
	if idx >= uint32(len(p.program)) {
		return IFIDRegister{}, p.pc
	}
	return IFIDRegister{Inst: p.program[idx], PC: p.pc, Valid: true}, p.pc + 4
}

func (p *Pipeline) emitTrace() {
	t := CycleTrace{
		Cycle: p.stats.Cycles,
		PC:    p.pc,
	}
	if p.ifid.Valid {
		t.IF = p.ifid.Inst.String()
	}
	if p.idex.Valid && !p.idex.C.IsNOP {
		t.ID = p.idex.Op.String()
	}
	if p.exmem.Valid && !p.exmem.C.IsNOP {
		t.EX = p.exmem.Op.String()
	}
	if p.memwb.Valid && !p.memwb.C.IsNOP {
		t.MEM = p.memwb.Op.String()
	}
	p.trace.Trace(t)
}
