package insts

import "fmt"

// Op represents an ARMv7 instruction identity.
type Op uint8

// ARMv7 opcodes.
const (
	OpInvalid Op = iota
	OpADC
	OpADD
	OpADR
	OpAND
	OpASR
	OpB
	OpBIC
	OpBKPT
	OpBL
	OpBLX
	OpBX
	OpBXJ
	OpCMN
	OpCMP
	OpEOR
	OpLSL
	OpLSR
	OpMOV
	OpMOVT
	OpMOVW
	OpMSR
	OpMVN
	OpNOP
	OpORR
	OpQSUB
	OpROR
	OpRRX
	OpRSB
	OpRSC
	OpSBC
	OpSEV
	OpSMLAW
	OpSMULW
	OpSUB
	OpSVC
	OpTEQ
	OpTST
	OpWFE
	OpWFI
	OpYIELD
)

var mnemonics = [...]string{
	OpInvalid: "INVLD",
	OpADC:     "ADC",
	OpADD:     "ADD",
	OpADR:     "ADR",
	OpAND:     "AND",
	OpASR:     "ASR",
	OpB:       "B",
	OpBIC:     "BIC",
	OpBKPT:    "BKPT",
	OpBL:      "BL",
	OpBLX:     "BLX",
	OpBX:      "BX",
	OpBXJ:     "BXJ",
	OpCMN:     "CMN",
	OpCMP:     "CMP",
	OpEOR:     "EOR",
	OpLSL:     "LSL",
	OpLSR:     "LSR",
	OpMOV:     "MOV",
	OpMOVT:    "MOVT",
	OpMOVW:    "MOVW",
	OpMSR:     "MSR",
	OpMVN:     "MVN",
	OpNOP:     "NOP",
	OpORR:     "ORR",
	OpQSUB:    "QSUB",
	OpROR:     "ROR",
	OpRRX:     "RRX",
	OpRSB:     "RSB",
	OpRSC:     "RSC",
	OpSBC:     "SBC",
	OpSEV:     "SEV",
	OpSMLAW:   "SMLAW",
	OpSMULW:   "SMULW",
	OpSUB:     "SUB",
	OpSVC:     "SVC",
	OpTEQ:     "TEQ",
	OpTST:     "TST",
	OpWFE:     "WFE",
	OpWFI:     "WFI",
	OpYIELD:   "YIELD",
}

// MnemonicByIndex returns the mnemonic of op, or false if op is out of range.
func MnemonicByIndex(op Op) (string, bool) {
	if int(op) >= len(mnemonics) {
		return "", false
	}
	return mnemonics[op], true
}

func (op Op) String() string {
	if s, ok := MnemonicByIndex(op); ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Format represents an instruction encoding class, the bit layout shared by
// a family of instructions.
type Format uint8

// Instruction formats.
const (
	FormatInvalid    Format = iota
	FormatArithShift        // Data processing, shifted register operand
	FormatArithImm          // Data processing, 12-bit immediate operand
	FormatBranch            // B, BL, SVC
	FormatBranchMisc        // BX, BXJ, BLX, BKPT, MSR and friends
	FormatMovImm            // MOV, MVN, MOVW, MOVT with immediate
	FormatCmpReg            // TST, TEQ, CMP, CMN with register operand
	FormatCmpImm            // TST, TEQ, CMP, CMN with immediate operand
	FormatOpless            // Hints without operands
	FormatDstSrc            // Shift/move instructions with Rd and a source
)

var formatNames = [...]string{
	FormatInvalid:    "INVALID",
	FormatArithShift: "ARITH_SHIFT",
	FormatArithImm:   "ARITH_IMM",
	FormatBranch:     "BRNCHSC",
	FormatBranchMisc: "BRNCHMISC",
	FormatMovImm:     "MOV_IMM",
	FormatCmpReg:     "CMP_OP",
	FormatCmpImm:     "CMP_IMM",
	FormatOpless:     "OPLESS",
	FormatDstSrc:     "DST_SRC",
}

// FormatByIndex returns the name of f, or false if f is out of range.
func FormatByIndex(f Format) (string, bool) {
	if int(f) >= len(formatNames) {
		return "", false
	}
	return formatNames[f], true
}

func (f Format) String() string {
	if s, ok := FormatByIndex(f); ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Reg is a 4-bit ARM core register index.
type Reg uint8

// Registers with a dedicated role.
const (
	RegSP Reg = 13
	RegLR Reg = 14
	RegPC Reg = 15
)

var registerNames = [...]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "SP", "LR", "PC",
}

// RegisterByIndex returns the name of reg, or false if reg is out of range.
func RegisterByIndex(reg Reg) (string, bool) {
	if int(reg) >= len(registerNames) {
		return "", false
	}
	return registerNames[reg], true
}

func (r Reg) String() string {
	if s, ok := RegisterByIndex(r); ok {
		return s
	}
	return fmt.Sprintf("Reg(%d)", int(r))
}
