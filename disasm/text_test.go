package disasm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/darm/disasm"
	"github.com/sarchlab/darm/insts"
)

var _ = Describe("Text", func() {
	DescribeTable("rendering",
		func(word uint32, omitAlways bool, expected string) {
			inst, err := insts.Decode(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(disasm.Text(inst, omitAlways)).To(Equal(expected))
		},
		Entry("ADD register", uint32(0xE0810002), true, "ADD r0, r1, r2"),
		Entry("ADD with AL suffix", uint32(0xE0810002), false, "ADDAL r0, r1, r2"),
		Entry("ADDS shifted", uint32(0xE0943105), true, "ADDS r3, r4, r5, LSL #2"),
		Entry("SUB register shift", uint32(0xE0410332), true, "SUB r0, r1, r2, LSR r3"),
		Entry("ADD immediate", uint32(0xE2810004), true, "ADD r0, r1, #4"),
		Entry("ADR forward", uint32(0xE28F0008), true, "ADR r0, #+8"),
		Entry("ADR backward", uint32(0xE24F300C), true, "ADR r3, #-12"),
		Entry("B self", uint32(0xEAFFFFFE), true, "B #-8"),
		Entry("BLEQ", uint32(0x0B800000), true, "BLEQ #-33554432"),
		Entry("SVC", uint32(0xEF123456), true, "SVC #0x123456"),
		Entry("BX LR", uint32(0xE12FFF1E), true, "BX LR"),
		Entry("BKPT", uint32(0xE1212374), true, "BKPT #0x1234"),
		Entry("MSR", uint32(0xE128F003), true, "MSR APSR_nzcvq, r3"),
		Entry("MOV immediate", uint32(0xE3A0002A), true, "MOV r0, #0x2A"),
		Entry("MOVW", uint32(0xE3010234), true, "MOVW r0, #0x1234"),
		Entry("CMP register", uint32(0xE1500001), true, "CMP r0, r1"),
		Entry("TST immediate", uint32(0xE31200FF), true, "TST r2, #0xFF"),
		Entry("WFI", uint32(0xE320F003), true, "WFI"),
		Entry("LSL immediate", uint32(0xE1A00101), true, "LSL r0, r1, #2"),
		Entry("LSR by 32", uint32(0xE1A00021), true, "LSR r0, r1, #32"),
		Entry("LSL register", uint32(0xE1A00211), true, "LSL r0, r1, r2"),
		Entry("MOV register", uint32(0xE1A00001), true, "MOV r0, r1"),
		Entry("NOP", uint32(0xE1A00000), true, "NOP"),
		Entry("RRX", uint32(0xE1A00061), true, "RRX r0, r1"),
		Entry("CMP with RRX", uint32(0xE1500061), true, "CMP r0, r1, RRX"),
	)
})
