package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
)

var _ = Describe("ALU", func() {
	DescribeTable("computes each operation",
		func(op emu.ALUOp, a, b, want int32) {
			Expect(emu.ALU(op, a, b)).To(Equal(want))
		},
		Entry("ADD", emu.ALUAdd, int32(2), int32(3), int32(5)),
		Entry("SUB", emu.ALUSub, int32(5), int32(3), int32(2)),
		Entry("AND", emu.ALUAnd, int32(0b1100), int32(0b1010), int32(0b1000)),
		Entry("OR", emu.ALUOr, int32(0b1100), int32(0b1010), int32(0b1110)),
		Entry("SLT true", emu.ALUSlt, int32(3), int32(5), int32(1)),
		Entry("SLT false", emu.ALUSlt, int32(5), int32(3), int32(0)),
		Entry("MUL", emu.ALUMul, int32(4), int32(3), int32(12)),
		Entry("SLL", emu.ALUSll, int32(1), int32(4), int32(16)),
		Entry("SRL", emu.ALUSrl, int32(16), int32(2), int32(4)),
	)

	It("wraps on signed overflow rather than panicking", func() {
		Expect(emu.ALU(emu.ALUAdd, 2147483647, 1)).To(Equal(int32(-2147483648)))
	})

	It("masks the shift count to 5 bits", func() {
		// 32 masked to 31 is 0, so a shift by 32 is a no-op.
		Expect(emu.ALU(emu.ALUSll, 1, 32)).To(Equal(int32(1)))
	})

	It("treats SLT as a signed comparison", func() {
		Expect(emu.ALU(emu.ALUSlt, -1, 0)).To(Equal(int32(1)))
	})
})
