package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/timing/core"
)

var _ = Describe("Simulator", func() {
	program := []insts.Instruction{
		{Op: insts.OpADDI, Rt: 8, Rs: 0, Imm: 5},
		{Op: insts.OpADDI, Rt: 9, Rs: 0, Imm: 7},
		{Op: insts.OpADD, Rd: 10, Rs: 8, Rt: 9},
		{Op: insts.OpHALT},
	}

	It("runs a program to completion and exposes final state", func() {
		sim := core.New(program, 1024, false)
		Expect(sim.Run()).To(Succeed())
		Expect(sim.IsHalted()).To(BeTrue())
		regs := sim.Registers()
		Expect(regs[10]).To(Equal(int32(12)))
		Expect(sim.Cycles()).To(BeNumerically(">", 0))
	})

	It("steps one cycle at a time with isHalted false until HALT retires", func() {
		sim := core.New(program, 1024, false)
		steps := 0
		for !sim.IsHalted() && steps < 100 {
			Expect(sim.Step()).To(Succeed())
			steps++
		}
		Expect(sim.IsHalted()).To(BeTrue())
	})

	It("returns a fixed-size memory snapshot", func() {
		sim := core.New(program, 64, false)
		Expect(sim.Run()).To(Succeed())
		Expect(sim.Memory(64)).To(HaveLen(64))
	})

	It("bounds Run with a safety cap when a program never halts", func() {
		sim := core.New([]insts.Instruction{
			{Op: insts.OpADDI, Rt: 8, Rs: 0, Imm: 1},
		}, 64, false, core.SafetyCap(50))
		Expect(sim.Run()).To(HaveOccurred())
	})
})
