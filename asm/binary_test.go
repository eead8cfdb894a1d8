package asm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/asm"
	"github.com/sarchlab/mips5sim/insts"
)

var _ = Describe("DecodeWord", func() {
	It("decodes an R-type ADD word", func() {
		// opcode 0, rs=8, rt=9, rd=10, shamt=0, funct=0x20 (ADD)
		word := uint32(8)<<21 | uint32(9)<<16 | uint32(10)<<11 | 0x20
		inst, err := asm.DecodeWord(word)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst).To(Equal(insts.Instruction{Op: insts.OpADD, Rd: 10, Rs: 8, Rt: 9}))
	})

	It("decodes an ADDI word with a negative immediate", func() {
		negOne := int16(-1)
		word := uint32(0x08)<<26 | uint32(8)<<21 | uint32(9)<<16 | uint32(uint16(negOne))
		inst, err := asm.DecodeWord(word)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst).To(Equal(insts.Instruction{Op: insts.OpADDI, Rs: 8, Rt: 9, Imm: -1}))
	})

	It("decodes a jump word's 26-bit address field", func() {
		word := uint32(0x02)<<26 | 3
		inst, err := asm.DecodeWord(word)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst).To(Equal(insts.Instruction{Op: insts.OpJ, Addr: 3}))
	})

	It("rejects an unrecognized opcode", func() {
		word := uint32(0x3E) << 26
		_, err := asm.DecodeWord(word)
		Expect(err).To(HaveOccurred())
		var decErr *asm.DecodeError
		Expect(err).To(BeAssignableToTypeOf(decErr))
	})

	It("rejects an R-type word with an unrecognized funct", func() {
		word := uint32(0x3F & 0x3F) // funct bits only, opcode 0
		_, err := asm.DecodeWord(word)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseWords", func() {
	It("parses one hex word per line", func() {
		program, err := asm.ParseWords("0x20090005\n# comment\n0xfc000000")
		Expect(err).NotTo(HaveOccurred())
		Expect(program).To(HaveLen(2))
		Expect(program[0].Op).To(Equal(insts.OpADDI))
		Expect(program[1].Op).To(Equal(insts.OpHALT))
	})
})
