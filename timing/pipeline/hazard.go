package pipeline

// ForwardSource identifies where a forwarded operand came from.
type ForwardSource uint8

const (
	ForwardNone ForwardSource = iota
	ForwardFromEXMEM
	ForwardFromMEMWB
)

// ForwardingUnit selects operand sources from EX/MEM and MEM/WB when a
// more recent producer exists than the value latched in ID/EX. It is
// stateless: every call is a pure function of the latches it is given.
type ForwardingUnit struct{}

// NewForwardingUnit constructs a ForwardingUnit.
func NewForwardingUnit() *ForwardingUnit {
	return &ForwardingUnit{}
}

// Forward computes the forwarded values of A (rs) and B (rt) for the
// instruction currently in ID/EX, given the current EX/MEM and MEM/WB
// latches. EX/MEM-originated forwards take priority over MEM/WB ones,
// since EX/MEM holds the more recently produced value.
func (u *ForwardingUnit) Forward(idex *IDEXRegister, exmem *EXMEMRegister, memwb *MEMWBRegister) (a, b int32) {
	a, b = idex.RsVal, idex.RtVal

	if src := u.sourceFor(idex.RsIdx, exmem, memwb); src != ForwardNone {
		a = u.valueFrom(src, exmem, memwb)
	}
	if src := u.sourceFor(idex.RtIdx, exmem, memwb); src != ForwardNone {
		b = u.valueFrom(src, exmem, memwb)
	}
	return a, b
}

// sourceFor decides which latch, if any, should forward a value for reg.
func (u *ForwardingUnit) sourceFor(reg uint8, exmem *EXMEMRegister, memwb *MEMWBRegister) ForwardSource {
	if reg == 0 {
		return ForwardNone
	}
	if exmem.Valid && exmem.C.RegWrite && exmem.DestReg != 0 && exmem.DestReg == reg {
		return ForwardFromEXMEM
	}
	if memwb.Valid && memwb.C.RegWrite && memwb.DestReg != 0 && memwb.DestReg == reg {
		return ForwardFromMEMWB
	}
	return ForwardNone
}

func (u *ForwardingUnit) valueFrom(src ForwardSource, exmem *EXMEMRegister, memwb *MEMWBRegister) int32 {
	switch src {
	case ForwardFromEXMEM:
		return exmem.ALUResult
	case ForwardFromMEMWB:
		return memwb.WritebackValue()
	default:
		return 0
	}
}

// HazardUnit detects load-use hazards: a LW whose destination register is
// read by the very next instruction, which needs a one-cycle stall since
// the loaded value is not ready until after MEM and cannot be forwarded
// in time for that instruction's EX.
type HazardUnit struct{}

// NewHazardUnit constructs a HazardUnit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// LoadUseHazard reports whether the load currently in ID/EX collides with
// the instruction currently in IF/ID.
func (u *HazardUnit) LoadUseHazard(idex *IDEXRegister, nextRs, nextRt uint8) bool {
	if !idex.Valid || !idex.C.MemRead {
		return false
	}
	rd := idex.DestReg()
	if rd == 0 {
		return false
	}
	return rd == nextRs || rd == nextRt
}
