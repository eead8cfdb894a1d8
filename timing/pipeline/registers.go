// Package pipeline implements the five-stage in-order integer pipeline:
// fetch, decode, execute, memory, write-back, with data-hazard forwarding,
// load-use stalling, and branch/jump flush logic.
package pipeline

import "github.com/sarchlab/mips5sim/insts"

// Control is the bundle of signals the decoder derives from an opcode and
// that flow down the pipeline alongside an instruction.
type Control struct {
	RegWrite bool
	MemRead  bool
	MemWrite bool
	MemToReg bool
	Branch   bool
	Jump     bool
	ALUSrc   bool
	RegDst   bool
	ALUOp    uint8
	IsNOP    bool
}

// NopControl returns the control bundle for a bubble: every signal off,
// IsNOP set.
func NopControl() Control {
	return Control{IsNOP: true}
}

// IFIDRegister is the latch between Fetch and Decode.
type IFIDRegister struct {
	Valid bool
	Inst  insts.Instruction
	PC    uint32
}

// Clear resets the latch to the bubble state.
func (r *IFIDRegister) Clear() {
	*r = IFIDRegister{}
}

// IDEXRegister is the latch between Decode and Execute.
//
// Imm is a single generic operand slot multiplexed by opcode, matching the
// source machine's single immediate field: for J it holds the raw 26-bit
// word index, for SLL/SRL the 5-bit shift amount, and otherwise the
// sign-extended 16-bit immediate. Op is carried alongside the Control
// bundle (rather than folded into it) because BEQ and BNE decode to an
// identical bundle and can only be told apart by the opcode itself.
type IDEXRegister struct {
	Valid bool
	Op    insts.Op
	C     Control
	PC    uint32
	RsIdx uint8
	RtIdx uint8
	RdIdx uint8
	RsVal int32
	RtVal int32
	Imm   int32
}

// Clear resets the latch to the empty (invalid) state used at
// construction.
func (r *IDEXRegister) Clear() {
	*r = IDEXRegister{C: NopControl()}
}

// Bubble overwrites the latch with a stall-inserted bubble: Valid=true,
// control marked IsNOP. This is distinct from Clear's invalid state — a
// stalled cycle still occupies the ID/EX slot, it simply carries no
// architectural effect, matching the "valid=true, isNOP" bubble shape a
// load-use stall inserts.
func (r *IDEXRegister) Bubble() {
	*r = IDEXRegister{Valid: true, C: NopControl()}
}

// DestReg returns the destination register this instruction will write,
// per the RegDst control signal (rd if set, else rt).
func (r *IDEXRegister) DestReg() uint8 {
	if r.C.RegDst {
		return r.RdIdx
	}
	return r.RtIdx
}

// IsHalt reports whether this latch holds the HALT instruction. The halt
// check in Pipeline.Step uses MEMWBRegister.IsHalt, not this one.
func (r *IDEXRegister) IsHalt() bool {
	return r.Valid && r.Op == insts.OpHALT
}

// EXMEMRegister is the latch between Execute and Memory.
type EXMEMRegister struct {
	Valid        bool
	Op           insts.Op
	C            Control
	PC           uint32
	ALUResult    int32
	StoreData    int32
	DestReg      uint8
	BranchTaken  bool
	BranchTarget uint32
}

// Clear resets the latch to the bubble state.
func (r *EXMEMRegister) Clear() {
	*r = EXMEMRegister{C: NopControl()}
}

// IsHalt reports whether this latch holds the HALT instruction.
func (r *EXMEMRegister) IsHalt() bool {
	return r.Valid && r.Op == insts.OpHALT
}

// MEMWBRegister is the latch between Memory and Write-back.
type MEMWBRegister struct {
	Valid     bool
	Op        insts.Op
	C         Control
	ALUResult int32
	MemData   int32
	DestReg   uint8
}

// Clear resets the latch to the bubble state.
func (r *MEMWBRegister) Clear() {
	*r = MEMWBRegister{C: NopControl()}
}

// IsHalt reports whether this is the retiring HALT instruction, the
// signal write-back uses to set HALT_COMMITTED.
func (r *MEMWBRegister) IsHalt() bool {
	return r.Valid && r.Op == insts.OpHALT
}

// WritebackValue returns the value write-back commits to DestReg: the
// loaded word if MemToReg, otherwise the ALU result.
func (r *MEMWBRegister) WritebackValue() int32 {
	if r.C.MemToReg {
		return r.MemData
	}
	return r.ALUResult
}
