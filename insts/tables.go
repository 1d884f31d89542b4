package insts

// tableEntry is the default identity and encoding class of a primary row.
type tableEntry struct {
	op     Op
	format Format
}

// primaryTable is indexed by bits [27:20] of the instruction word.
var primaryTable = buildPrimaryTable()

func buildPrimaryTable() [256]tableEntry {
	var t [256]tableEntry

	fill := func(lo, hi int, op Op, format Format) {
		for i := lo; i <= hi; i++ {
			t[i] = tableEntry{op, format}
		}
	}

	// Data processing, register operand: opcode in bits [24:21], S in bit 20.
	dataProcessing := [...]Op{OpAND, OpEOR, OpSUB, OpRSB, OpADD, OpADC, OpSBC, OpRSC}
	for i, op := range dataProcessing {
		fill(i*2, i*2+1, op, FormatArithShift)
		fill(0x20+i*2, 0x20+i*2+1, op, FormatArithImm)
	}

	// 0x10, 0x14 and 0x16 hold MRS, saturating arithmetic, halfword
	// multiplies, SWP and CLZ, none of which are decoded.
	fill(0x11, 0x11, OpTST, FormatCmpReg)
	fill(0x12, 0x12, OpBX, FormatBranchMisc)
	fill(0x13, 0x13, OpTEQ, FormatCmpReg)
	fill(0x15, 0x15, OpCMP, FormatCmpReg)
	fill(0x17, 0x17, OpCMN, FormatCmpReg)
	fill(0x18, 0x19, OpORR, FormatArithShift)
	fill(0x1A, 0x1B, OpMOV, FormatDstSrc)
	fill(0x1C, 0x1D, OpBIC, FormatArithShift)
	fill(0x1E, 0x1F, OpMVN, FormatArithShift)

	// 0x36 is MSR (immediate), not decoded.
	fill(0x30, 0x30, OpMOVW, FormatMovImm)
	fill(0x31, 0x31, OpTST, FormatCmpImm)
	fill(0x32, 0x32, OpNOP, FormatOpless)
	fill(0x33, 0x33, OpTEQ, FormatCmpImm)
	fill(0x34, 0x34, OpMOVT, FormatMovImm)
	fill(0x35, 0x35, OpCMP, FormatCmpImm)
	fill(0x37, 0x37, OpCMN, FormatCmpImm)
	fill(0x38, 0x39, OpORR, FormatArithImm)
	fill(0x3A, 0x3B, OpMOV, FormatMovImm)
	fill(0x3C, 0x3D, OpBIC, FormatArithImm)
	fill(0x3E, 0x3F, OpMVN, FormatMovImm)

	// Loads, stores, media, block transfers and coprocessor rows stay invalid.
	fill(0xA0, 0xAF, OpB, FormatBranch)
	fill(0xB0, 0xBF, OpBL, FormatBranch)
	fill(0xF0, 0xFF, OpSVC, FormatBranch)

	return t
}

// branchMiscTable is indexed by bits [7:4] of a FormatBranchMisc word.
var branchMiscTable = [16]Op{
	0b0000: OpMSR,
	0b0001: OpBX,
	0b0010: OpBXJ,
	0b0011: OpBLX,
	0b0101: OpQSUB,
	0b0111: OpBKPT,
	0b1000: OpSMLAW,
	0b1010: OpSMULW,
	0b1100: OpSMLAW,
	0b1110: OpSMULW,
}

// oplessTable is indexed by bits [2:0] of a FormatOpless word.
var oplessTable = [8]Op{
	0b000: OpNOP,
	0b001: OpYIELD,
	0b010: OpWFE,
	0b011: OpWFI,
	0b100: OpSEV,
}

// dstSrcTable is indexed by bits [7:4] of a FormatDstSrc word. The holes are
// STREXD, STRH, LDRD and STRD, which share the row.
var dstSrcTable = [16]Op{
	0b0000: OpLSL,
	0b0001: OpLSL,
	0b0010: OpLSR,
	0b0011: OpLSR,
	0b0100: OpASR,
	0b0101: OpASR,
	0b0110: OpROR,
	0b0111: OpROR,
	0b1000: OpLSL,
	0b1010: OpLSR,
	0b1100: OpASR,
	0b1110: OpROR,
}
