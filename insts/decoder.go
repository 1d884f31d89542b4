package insts

// Instruction represents a decoded ARMv7 instruction. Only the fields of the
// instruction's Format are meaningful; the rest are left at zero.
type Instruction struct {
	Word   uint32 // Raw instruction word
	Cond   Cond   // Condition field
	Op     Op     // Operation
	Format Format // Encoding class

	SetFlags bool // true if instruction sets condition flags (S suffix)
	Rd       Reg  // Destination register
	Rn       Reg  // First operand / base register
	Rm       Reg  // Second operand register
	Rs       Reg  // Register holding the shift amount

	// Shift for register operand
	ShiftType   ShiftType // Type of shift applied to Rm
	ShiftAmount uint8     // Immediate shift amount, when ShiftIsReg is false
	ShiftIsReg  bool      // true if the shift amount is read from Rs

	// Imm is fully assembled: branch offsets are sign-extended byte
	// displacements, MOVW/MOVT carry all 16 bits.
	Imm uint32

	// Add is the offset direction of ADR.
	Add bool
}

// Decoder decodes ARMv7 machine code into instructions.
// A Decoder holds no state and can be shared between goroutines.
type Decoder struct{}

// NewDecoder creates a new ARMv7 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

var defaultDecoder Decoder

// Decode decodes a 32-bit ARM-mode instruction word with a shared Decoder.
func Decode(word uint32) (Instruction, error) {
	return defaultDecoder.Decode(word)
}

// Decode decodes a 32-bit ARM-mode instruction word. On failure the returned
// Instruction is zero and the error is a *DecodeError.
func (d *Decoder) Decode(word uint32) (Instruction, error) {
	inst := Instruction{
		Word: word,
		Cond: Cond((word >> 28) & 0xF), // bits [31:28]
	}

	if inst.Cond == CondNV {
		return Instruction{}, fail(word, ReasonUnconditional)
	}

	if err := d.decodeConditional(word, &inst); err != nil {
		return Instruction{}, err
	}

	d.rewrite(word, &inst)

	return inst, nil
}

// decodeConditional looks up the encoding class from bits [27:20] and runs
// its field extractor.
func (d *Decoder) decodeConditional(word uint32, inst *Instruction) error {
	entry := primaryTable[(word>>20)&0xFF]
	inst.Op = entry.op
	inst.Format = entry.format

	switch inst.Format {
	case FormatInvalid:
		return fail(word, ReasonInvalidClass)
	case FormatArithShift:
		return d.decodeArithShift(word, inst)
	case FormatArithImm:
		d.decodeArithImm(word, inst)
		return nil
	case FormatBranch:
		d.decodeBranch(word, inst)
		return nil
	case FormatBranchMisc:
		return d.decodeBranchMisc(word, inst)
	case FormatMovImm:
		d.decodeMovImm(word, inst)
		return nil
	case FormatCmpReg:
		return d.decodeCmpReg(word, inst)
	case FormatCmpImm:
		d.decodeCmpImm(word, inst)
		return nil
	case FormatOpless:
		return d.decodeOpless(word, inst)
	case FormatDstSrc:
		return d.decodeDstSrc(word, inst)
	default:
		return fail(word, ReasonInvalidClass)
	}
}

// isMultiplyOrExtraLoadStore reports whether bits 7 and 4 are both set. Such
// words share the data processing rows but are multiplies or halfword and
// doubleword transfers.
func isMultiplyOrExtraLoadStore(word uint32) bool {
	return (word>>7)&1 == 1 && (word>>4)&1 == 1
}

// decodeShiftedRegister extracts Rm and the shift applied to it.
// Format: ... | Rs/imm5 | type | reg | Rm
func decodeShiftedRegister(word uint32, inst *Instruction) {
	inst.Rm = Reg(word & 0xF)                     // bits [3:0]
	inst.ShiftType = ShiftType((word >> 5) & 0x3) // bits [6:5]

	inst.ShiftIsReg = (word>>4)&1 == 1 // bit 4
	if inst.ShiftIsReg {
		inst.Rs = Reg((word >> 8) & 0xF) // bits [11:8]
	} else {
		inst.ShiftAmount = uint8((word >> 7) & 0x1F) // bits [11:7]
	}
}

// decodeArithShift decodes data processing with a shifted register operand.
// Words with bits 7 and 4 both set are multiplies or halfword/doubleword
// transfers sharing the row; they fail with ReasonUnmodeledVariant instead of
// being read as data processing.
// Format: cond | 000 | opcode | S | Rn | Rd | shift | Rm
func (d *Decoder) decodeArithShift(word uint32, inst *Instruction) error {
	if isMultiplyOrExtraLoadStore(word) {
		return fail(word, ReasonUnmodeledVariant)
	}

	inst.SetFlags = (word>>20)&1 == 1  // bit 20
	inst.Rn = Reg((word >> 16) & 0xF) // bits [19:16]
	inst.Rd = Reg((word >> 12) & 0xF) // bits [15:12]
	decodeShiftedRegister(word, inst)

	return nil
}

// decodeArithImm decodes data processing with an immediate operand.
// Format: cond | 001 | opcode | S | Rn | Rd | imm12
func (d *Decoder) decodeArithImm(word uint32, inst *Instruction) {
	inst.SetFlags = (word>>20)&1 == 1  // bit 20
	inst.Rn = Reg((word >> 16) & 0xF) // bits [19:16]
	inst.Rd = Reg((word >> 12) & 0xF) // bits [15:12]
	inst.Imm = word & 0xFFF           // bits [11:0]
}

// decodeBranch decodes B, BL and SVC.
// Format: cond | 101 | L | imm24, or cond | 1111 | imm24
func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	inst.Imm = word & 0xFFFFFF // bits [23:0]

	// SVC carries a comment field, B and BL a signed word offset.
	if inst.Op != OpSVC {
		if (inst.Imm>>23)&1 == 1 {
			inst.Imm |= 0xFF000000
		}
		inst.Imm <<= 2
	}
}

// decodeBranchMisc decodes the miscellaneous row, whose identity is selected
// by bits [7:4].
func (d *Decoder) decodeBranchMisc(word uint32, inst *Instruction) error {
	inst.Op = branchMiscTable[(word>>4)&0xF]

	switch inst.Op {
	case OpBKPT:
		// imm16 is split into bits [19:8] and [3:0]
		inst.Imm = ((word>>8)&0xFFF)<<4 | word&0xF
		return nil
	case OpBX, OpBXJ, OpBLX:
		inst.Rm = Reg(word & 0xF)
		return nil
	case OpMSR:
		inst.Rn = Reg(word & 0xF)
		inst.Imm = (word >> 18) & 0x3 // mask bits [19:18]
		return nil
	case OpInvalid:
		return fail(word, ReasonUnresolvedSubOp)
	default:
		// QSUB, SMLAW, SMULW
		return fail(word, ReasonUnmodeledVariant)
	}
}

// decodeMovImm decodes MOV, MVN, MOVW and MOVT with an immediate.
// Format: cond | 001 | opcode | S | imm4 | Rd | imm12
func (d *Decoder) decodeMovImm(word uint32, inst *Instruction) {
	inst.Rd = Reg((word >> 12) & 0xF) // bits [15:12]
	inst.Imm = word & 0xFFF           // bits [11:0]

	if inst.Op == OpMOV || inst.Op == OpMVN {
		inst.SetFlags = (word>>20)&1 == 1
		return
	}

	// MOVW and MOVT take another 4 bits of immediate from bits [19:16].
	inst.Imm |= ((word >> 16) & 0xF) << 12
}

// decodeCmpReg decodes TST, TEQ, CMP and CMN with a shifted register. It
// rejects the multiply and extra load/store words like decodeArithShift.
// Format: cond | 00010 | op | 1 | Rn | SBZ | shift | Rm
func (d *Decoder) decodeCmpReg(word uint32, inst *Instruction) error {
	if isMultiplyOrExtraLoadStore(word) {
		return fail(word, ReasonUnmodeledVariant)
	}

	inst.SetFlags = true
	inst.Rn = Reg((word >> 16) & 0xF) // bits [19:16]
	decodeShiftedRegister(word, inst)

	return nil
}

// decodeCmpImm decodes TST, TEQ, CMP and CMN with an immediate.
// Format: cond | 00110 | op | 1 | Rn | SBZ | imm12
func (d *Decoder) decodeCmpImm(word uint32, inst *Instruction) {
	inst.SetFlags = true
	inst.Rn = Reg((word >> 16) & 0xF) // bits [19:16]
	inst.Imm = word & 0xFFF           // bits [11:0]
}

// decodeOpless decodes the hint instructions. MSR (immediate), with a
// non-zero mask in bits [19:16], and DBG or reserved hints, with non-zero
// bits [7:3], share the row; they fail with ReasonUnmodeledVariant rather
// than decoding as the hint selected by bits [2:0].
// Format: cond | 00110010 | mask=0000 | 1111 | 0000 | op2
func (d *Decoder) decodeOpless(word uint32, inst *Instruction) error {
	// A non-zero mask is MSR (immediate); op2 >= 8 is DBG and reserved hints.
	if (word>>16)&0xF != 0 || (word>>3)&0x1F != 0 {
		return fail(word, ReasonUnmodeledVariant)
	}

	inst.Op = oplessTable[word&0x7]
	if inst.Op == OpInvalid {
		return fail(word, ReasonUnresolvedSubOp)
	}
	return nil
}

// decodeDstSrc decodes the MOV row: LSL, LSR, ASR, ROR and their aliases.
// Format: cond | 0001101 | S | 0000 | Rd | Rs/imm5 | type | reg | Rm
func (d *Decoder) decodeDstSrc(word uint32, inst *Instruction) error {
	inst.Op = dstSrcTable[(word>>4)&0xF]
	if inst.Op == OpInvalid {
		// STREXD, STRH, LDRD, STRD
		return fail(word, ReasonUnresolvedSubOp)
	}

	inst.SetFlags = (word>>20)&1 == 1  // bit 20
	inst.Rd = Reg((word >> 12) & 0xF) // bits [15:12]
	decodeShiftedRegister(word, inst)

	return nil
}

// rewrite replaces the table identity of a fully extracted instruction with
// the alias or pseudo-instruction it stands for.
func (d *Decoder) rewrite(word uint32, inst *Instruction) {
	switch inst.Format {
	case FormatArithImm:
		// ADD/SUB PC-relative without flags is ADR.
		if (inst.Op == OpADD || inst.Op == OpSUB) && !inst.SetFlags && inst.Rn == RegPC {
			inst.Op = OpADR
			inst.Rn = 0
			inst.Add = (word>>23)&1 == 1
		}

	case FormatDstSrc:
		if inst.ShiftIsReg || inst.ShiftAmount != 0 {
			return
		}

		switch {
		case inst.Op == OpLSL && inst.ShiftType == ShiftLSL:
			inst.Op = OpMOV
			// The manual only names MOV r0, r0 but any Rd == Rm is a no-op.
			if inst.Rd == inst.Rm {
				inst.Op = OpNOP
			}
		case inst.Op == OpROR && inst.ShiftType == ShiftROR:
			inst.Op = OpRRX
		}
	}
}

// ExpandImm returns the 32-bit constant encoded by the 12-bit modified
// immediate of data processing, compare and MOV/MVN instructions: an 8-bit
// value rotated right by twice bits [11:8].
func (i *Instruction) ExpandImm() uint32 {
	value := i.Imm & 0xFF
	rotate := 2 * ((i.Imm >> 8) & 0xF)
	return value>>rotate | value<<((32-rotate)&31)
}
