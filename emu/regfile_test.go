package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
)

var _ = Describe("RegFile", func() {
	var rf *emu.RegFile

	BeforeEach(func() {
		rf = &emu.RegFile{}
	})

	It("always reads register 0 as zero", func() {
		Expect(rf.Read(0)).To(Equal(int32(0)))
	})

	It("silently ignores writes to register 0", func() {
		rf.Write(0, 42)
		Expect(rf.Read(0)).To(Equal(int32(0)))
	})

	It("round-trips a write through a later read", func() {
		rf.Write(8, 123)
		Expect(rf.Read(8)).To(Equal(int32(123)))
	})

	It("keeps registers independent", func() {
		rf.Write(8, 1)
		rf.Write(9, 2)
		Expect(rf.Read(8)).To(Equal(int32(1)))
		Expect(rf.Read(9)).To(Equal(int32(2)))
	})

	It("snapshots all 32 registers", func() {
		rf.Write(31, 99)
		snap := rf.Snapshot()
		Expect(snap[31]).To(Equal(int32(99)))
		Expect(snap[0]).To(Equal(int32(0)))
	})
})
