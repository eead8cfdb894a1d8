package pipeline

import "github.com/sarchlab/mips5sim/insts"

// Decode maps an opcode to the control bundle that drives EX, MEM, and WB.
// Table entries are listed in opcode order; fields not mentioned default
// to their zero value.
func Decode(op insts.Op) Control {
	switch op {
	case insts.OpADD:
		return Control{RegWrite: true, RegDst: true, ALUOp: 0}
	case insts.OpSUB:
		return Control{RegWrite: true, RegDst: true, ALUOp: 1}
	case insts.OpAND:
		return Control{RegWrite: true, RegDst: true, ALUOp: 2}
	case insts.OpOR:
		return Control{RegWrite: true, RegDst: true, ALUOp: 3}
	case insts.OpSLT:
		return Control{RegWrite: true, RegDst: true, ALUOp: 4}
	case insts.OpADDI:
		return Control{RegWrite: true, ALUSrc: true, ALUOp: 0}
	case insts.OpLW:
		return Control{RegWrite: true, MemRead: true, MemToReg: true, ALUSrc: true, ALUOp: 0}
	case insts.OpSW:
		return Control{MemWrite: true, ALUSrc: true, ALUOp: 0}
	case insts.OpBEQ:
		return Control{Branch: true, ALUOp: 1}
	case insts.OpBNE:
		return Control{Branch: true, ALUOp: 1}
	case insts.OpJ:
		return Control{Jump: true, ALUOp: 0}
	case insts.OpMUL:
		return Control{RegWrite: true, RegDst: true, ALUOp: 5}
	case insts.OpSLL:
		return Control{RegWrite: true, RegDst: true, ALUSrc: true, ALUOp: 6}
	case insts.OpSRL:
		return Control{RegWrite: true, RegDst: true, ALUSrc: true, ALUOp: 7}
	case insts.OpHALT:
		return Control{ALUOp: 0}
	default:
		// NOP, and anything the parser never should have produced, decodes
		// as a bubble.
		return NopControl()
	}
}
