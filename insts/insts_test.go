package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/darm/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	Describe("name lookups", func() {
		It("should name every opcode", func() {
			for op := insts.OpInvalid; op <= insts.OpYIELD; op++ {
				name, ok := insts.MnemonicByIndex(op)
				Expect(ok).To(BeTrue())
				Expect(name).NotTo(BeEmpty())
			}
			Expect(insts.OpADR.String()).To(Equal("ADR"))
		})

		It("should reject out of range opcodes", func() {
			_, ok := insts.MnemonicByIndex(insts.OpYIELD + 1)
			Expect(ok).To(BeFalse())
			Expect(insts.Op(200).String()).To(Equal("Op(200)"))
		})

		It("should name formats", func() {
			name, ok := insts.FormatByIndex(insts.FormatDstSrc)
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("DST_SRC"))

			_, ok = insts.FormatByIndex(insts.FormatDstSrc + 1)
			Expect(ok).To(BeFalse())
		})

		It("should name registers", func() {
			Expect(insts.Reg(0).String()).To(Equal("r0"))
			Expect(insts.RegSP.String()).To(Equal("SP"))
			Expect(insts.RegLR.String()).To(Equal("LR"))
			Expect(insts.RegPC.String()).To(Equal("PC"))

			_, ok := insts.RegisterByIndex(16)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ExpandImm", func() {
		DescribeTable("modified immediates",
			func(imm12, expected uint32) {
				inst := insts.Instruction{Imm: imm12}
				Expect(inst.ExpandImm()).To(Equal(expected))
			},
			Entry("no rotation", uint32(0x0FF), uint32(0xFF)),
			Entry("rotate by 8", uint32(0x4FF), uint32(0xFF000000)),
			Entry("rotate by 2", uint32(0x101), uint32(0x40000000)),
			Entry("rotate by 30", uint32(0xF01), uint32(0x4)),
		)
	})
})
