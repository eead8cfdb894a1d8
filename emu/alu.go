package emu

// ALUOp is the closed set of operations the ALU can perform, matching the
// 3-bit ALUOp field carried in the control bundle.
type ALUOp uint8

const (
	ALUAdd ALUOp = 0
	ALUSub ALUOp = 1
	ALUAnd ALUOp = 2
	ALUOr  ALUOp = 3
	ALUSlt ALUOp = 4
	ALUMul ALUOp = 5
	ALUSll ALUOp = 6
	ALUSrl ALUOp = 7
)

// ALU computes the result of a single operation over two 32-bit operands.
// It is a pure function, not a stateful unit: every case of the closed
// ALUOp set is covered by an exhaustive switch, and two's-complement
// wraparound on overflow is the natural behavior of Go's fixed-width
// integer arithmetic, so no overflow flags are computed or needed.
func ALU(op ALUOp, a, b int32) int32 {
	switch op {
	case ALUAdd:
		return a + b
	case ALUSub:
		return a - b
	case ALUAnd:
		return a & b
	case ALUOr:
		return a | b
	case ALUSlt:
		if a < b {
			return 1
		}
		return 0
	case ALUMul:
		return a * b
	case ALUSll:
		return int32(uint32(a) << (uint32(b) & 31))
	case ALUSrl:
		return int32(uint32(a) >> (uint32(b) & 31))
	default:
		return 0
	}
}
