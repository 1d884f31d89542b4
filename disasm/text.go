package disasm

import (
	"fmt"
	"strings"

	"github.com/sarchlab/darm/insts"
)

// Mnemonic returns the operation name with its condition suffix and, for
// flag-setting data processing, the S suffix.
func Mnemonic(inst insts.Instruction, omitAlways bool) string {
	var sb strings.Builder
	sb.WriteString(inst.Op.String())

	if info, ok := insts.ConditionInfo(inst.Cond, omitAlways); ok {
		sb.WriteString(info.Suffix)
	}

	if inst.SetFlags && inst.Format != insts.FormatCmpReg && inst.Format != insts.FormatCmpImm {
		sb.WriteString("S")
	}

	return sb.String()
}

// Operands renders the operand list of inst in assembler syntax.
func Operands(inst insts.Instruction) string {
	switch inst.Format {
	case insts.FormatArithShift:
		return join(inst.Rd.String(), inst.Rn.String(), inst.Rm.String()) + shiftSuffix(inst)
	case insts.FormatArithImm:
		if inst.Op == insts.OpADR {
			sign := "-"
			if inst.Add {
				sign = "+"
			}
			return join(inst.Rd.String(), fmt.Sprintf("#%s%d", sign, inst.ExpandImm()))
		}
		return join(inst.Rd.String(), inst.Rn.String(), immediate(inst.ExpandImm()))
	case insts.FormatBranch:
		if inst.Op == insts.OpSVC {
			return immediate(inst.Imm)
		}
		return fmt.Sprintf("#%d", int32(inst.Imm))
	case insts.FormatBranchMisc:
		return branchMiscOperands(inst)
	case insts.FormatMovImm:
		if inst.Op == insts.OpMOV || inst.Op == insts.OpMVN {
			return join(inst.Rd.String(), immediate(inst.ExpandImm()))
		}
		return join(inst.Rd.String(), immediate(inst.Imm))
	case insts.FormatCmpReg:
		return join(inst.Rn.String(), inst.Rm.String()) + shiftSuffix(inst)
	case insts.FormatCmpImm:
		return join(inst.Rn.String(), immediate(inst.ExpandImm()))
	case insts.FormatDstSrc:
		return dstSrcOperands(inst)
	default:
		return ""
	}
}

// Text renders inst as one line of assembly.
func Text(inst insts.Instruction, omitAlways bool) string {
	mnemonic := Mnemonic(inst, omitAlways)
	operands := Operands(inst)
	if operands == "" {
		return mnemonic
	}
	return mnemonic + " " + operands
}

func join(operands ...string) string {
	return strings.Join(operands, ", ")
}

func immediate(v uint32) string {
	if v < 10 {
		return fmt.Sprintf("#%d", v)
	}
	return fmt.Sprintf("#0x%X", v)
}

func shiftSuffix(inst insts.Instruction) string {
	if inst.ShiftIsReg {
		return fmt.Sprintf(", %v %v", inst.ShiftType, inst.Rs)
	}

	name, amount := inst.Shifter()
	switch name {
	case "":
		return ""
	case "RRX":
		return ", RRX"
	default:
		return fmt.Sprintf(", %s #%d", name, amount)
	}
}

func branchMiscOperands(inst insts.Instruction) string {
	switch inst.Op {
	case insts.OpBKPT:
		return immediate(inst.Imm)
	case insts.OpMSR:
		target := "APSR"
		if inst.Imm != 0 {
			target += "_"
		}
		if inst.Imm&0b10 != 0 {
			target += "nzcvq"
		}
		if inst.Imm&0b01 != 0 {
			target += "g"
		}
		return join(target, inst.Rn.String())
	default:
		return inst.Rm.String()
	}
}

func dstSrcOperands(inst insts.Instruction) string {
	switch inst.Op {
	case insts.OpNOP:
		return ""
	case insts.OpMOV, insts.OpRRX:
		return join(inst.Rd.String(), inst.Rm.String())
	}

	if inst.ShiftIsReg {
		return join(inst.Rd.String(), inst.Rm.String(), inst.Rs.String())
	}

	_, amount := inst.Shifter()
	return join(inst.Rd.String(), inst.Rm.String(), fmt.Sprintf("#%d", amount))
}
