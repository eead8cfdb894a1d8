package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

func runToHalt(program []insts.Instruction) *pipeline.Pipeline {
	p := pipeline.NewPipeline(program, 1024, pipeline.WithSafetyCap(1000))
	Expect(p.Run()).To(Succeed())
	Expect(p.IsHalted()).To(BeTrue())
	return p
}

func addi(rt, rs uint8, imm int16) insts.Instruction {
	return insts.Instruction{Op: insts.OpADDI, Rt: rt, Rs: rs, Imm: imm}
}

func rtype(op insts.Op, rd, rs, rt uint8) insts.Instruction {
	return insts.Instruction{Op: op, Rd: rd, Rs: rs, Rt: rt}
}

func shift(op insts.Op, rd, rt uint8, shamt uint8) insts.Instruction {
	return insts.Instruction{Op: op, Rd: rd, Rt: rt, Shamt: shamt}
}

func sw(rt, rs uint8, imm int16) insts.Instruction {
	return insts.Instruction{Op: insts.OpSW, Rt: rt, Rs: rs, Imm: imm}
}

func lw(rt, rs uint8, imm int16) insts.Instruction {
	return insts.Instruction{Op: insts.OpLW, Rt: rt, Rs: rs, Imm: imm}
}

func branch(op insts.Op, rs, rt uint8, offset int16) insts.Instruction {
	return insts.Instruction{Op: op, Rs: rs, Rt: rt, Imm: offset}
}

func jump(target uint32) insts.Instruction {
	return insts.Instruction{Op: insts.OpJ, Addr: target}
}

func halt() insts.Instruction {
	return insts.Instruction{Op: insts.OpHALT}
}

var _ = Describe("Pipeline end-to-end scenarios", func() {
	It("computes arithmetic with forwarding", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 5),
			addi(9, 0, 7),
			rtype(insts.OpADD, 10, 8, 9),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[8]).To(Equal(int32(5)))
		Expect(regs[9]).To(Equal(int32(7)))
		Expect(regs[10]).To(Equal(int32(12)))
	})

	It("computes multiply and shifts", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 4),
			addi(9, 0, 3),
			rtype(insts.OpMUL, 10, 8, 9),
			shift(insts.OpSLL, 11, 10, 1),
			shift(insts.OpSRL, 12, 11, 2),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[10]).To(Equal(int32(12)))
		Expect(regs[11]).To(Equal(int32(24)))
		Expect(regs[12]).To(Equal(int32(6)))
	})

	It("stalls exactly one cycle on a load-use hazard", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 100),
			sw(8, 0, 0),
			lw(9, 0, 0),
			rtype(insts.OpADD, 10, 9, 9),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[9]).To(Equal(int32(100)))
		Expect(regs[10]).To(Equal(int32(200)))
		Expect(p.Stats().Stalls).To(Equal(uint64(1)))
	})

	It("flushes the wrong-path instructions on a taken branch", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 1),
			addi(9, 0, 1),
			branch(insts.OpBEQ, 8, 9, 2),
			addi(10, 0, 111),
			addi(10, 0, 222),
			addi(11, 0, 333),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[10]).To(Equal(int32(0)))
		Expect(regs[11]).To(Equal(int32(333)))
		Expect(p.Stats().Flushes).To(Equal(uint64(1)))
	})

	It("does not take a BEQ whose operands differ", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 1),
			addi(9, 0, 2),
			branch(insts.OpBEQ, 8, 9, 2),
			addi(10, 0, 111),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[10]).To(Equal(int32(111)))
		Expect(p.Stats().Flushes).To(Equal(uint64(0)))
	})

	It("takes a BNE when operands differ", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 1),
			addi(9, 0, 2),
			branch(insts.OpBNE, 8, 9, 2),
			addi(10, 0, 111),
			addi(10, 0, 222),
			addi(11, 0, 333),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[10]).To(Equal(int32(0)))
		Expect(regs[11]).To(Equal(int32(333)))
	})

	It("jumps to an absolute word target", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 1),
			jump(3),
			addi(8, 0, 99),
			addi(9, 0, 7),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[8]).To(Equal(int32(1)))
		Expect(regs[9]).To(Equal(int32(7)))
	})

	It("computes SLT as a signed comparison", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 3),
			addi(9, 0, 5),
			rtype(insts.OpSLT, 10, 8, 9),
			rtype(insts.OpSLT, 11, 9, 8),
			halt(),
		})
		regs := p.Registers()
		Expect(regs[10]).To(Equal(int32(1)))
		Expect(regs[11]).To(Equal(int32(0)))
	})
})

var _ = Describe("Pipeline invariants", func() {
	It("keeps register 0 hard-wired to zero even when targeted", func() {
		p := runToHalt([]insts.Instruction{
			addi(0, 0, 77),
			halt(),
		})
		Expect(p.Registers()[0]).To(Equal(int32(0)))
	})

	It("keeps the program counter a multiple of 4 at every step", func() {
		p := pipeline.NewPipeline([]insts.Instruction{
			addi(8, 0, 1),
			addi(9, 0, 2),
			rtype(insts.OpADD, 10, 8, 9),
			halt(),
		}, 64, pipeline.WithSafetyCap(1000))
		for !p.IsHalted() {
			Expect(p.Step()).To(Succeed())
			Expect(p.PC() % 4).To(Equal(uint32(0)))
		}
	})

	It("keeps the cycle counter strictly monotone until halted", func() {
		p := pipeline.NewPipeline([]insts.Instruction{
			addi(8, 0, 1),
			halt(),
		}, 64, pipeline.WithSafetyCap(1000))
		prev := p.Cycles()
		for !p.IsHalted() {
			Expect(p.Step()).To(Succeed())
			Expect(p.Cycles()).To(BeNumerically(">", prev))
			prev = p.Cycles()
		}
	})

	It("propagates a store to a later load", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 42),
			sw(8, 0, 4),
			lw(9, 0, 4),
			halt(),
		})
		Expect(p.Registers()[9]).To(Equal(int32(42)))
	})

	It("is a no-op once halted", func() {
		p := runToHalt([]insts.Instruction{
			addi(8, 0, 1),
			halt(),
		})
		cyclesAtHalt := p.Cycles()
		Expect(p.Step()).To(Succeed())
		Expect(p.Cycles()).To(Equal(cyclesAtHalt))
	})

	It("reports ErrSafetyCap when a program never halts", func() {
		p := pipeline.NewPipeline([]insts.Instruction{
			addi(8, 0, 1),
		}, 64, pipeline.WithSafetyCap(50))
		err := p.Run()
		Expect(err).To(HaveOccurred())
		var capErr *pipeline.ErrSafetyCap
		Expect(err).To(BeAssignableToTypeOf(capErr))
	})
})
