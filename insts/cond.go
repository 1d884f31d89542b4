package insts

import "fmt"

// Cond represents an ARMv7 condition field (bits [31:28]).
type Cond uint8

// ARMv7 condition codes.
const (
	CondEQ Cond = 0b0000 // Equal (Z == 1)
	CondNE Cond = 0b0001 // Not Equal (Z == 0)
	CondCS Cond = 0b0010 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0b0011 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0b0100 // Minus / Negative (N == 1)
	CondPL Cond = 0b0101 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0b0110 // Overflow (V == 1)
	CondVC Cond = 0b0111 // No overflow (V == 0)
	CondHI Cond = 0b1000 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0b1001 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0b1010 // Signed greater than or equal (N == V)
	CondLT Cond = 0b1011 // Signed less than (N != V)
	CondGT Cond = 0b1100 // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0b1101 // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0b1110 // Always (unconditional)
	CondNV Cond = 0b1111 // Unconditional instruction space, not decoded
)

// CondInfo describes a condition code.
type CondInfo struct {
	// Suffix is the mnemonic extension, e.g. "EQ".
	Suffix string
	// Integer is the meaning after an integer comparison.
	Integer string
	// FloatingPoint is the meaning after a floating-point comparison.
	FloatingPoint string
}

// conditions is indexed by condition field. The two entries past CondAL are
// legacy aliases that are only consulted by ConditionIndex.
var conditions = [...]CondInfo{
	{"EQ", "Equal", "Equal"},
	{"NE", "Not equal", "Not equal, or unordered"},
	{"CS", "Carry Set", "Greater than, equal, or unordered"},
	{"CC", "Carry Clear", "Less than"},
	{"MI", "Minus, negative", "Less than"},
	{"PL", "Plus, positive or zero", "Greater than, equal, or unordered"},
	{"VS", "Overflow", "Unordered"},
	{"VC", "No overflow", "Not unordered"},
	{"HI", "Unsigned higher", "Greater than, unordered"},
	{"LS", "Unsigned lower or same", "Greater than, or unordered"},
	{"GE", "Signed greater than or equal", "Greater than, or unordered"},
	{"LT", "Signed less than", "Less than, or unordered"},
	{"GT", "Signed greater than", "Greater than"},
	{"LE", "Signed less than or equal", "Less than, equal, or unordered"},
	{"AL", "Always (unconditional)", "Always (unconditional)"},

	// alias for CS
	{"HS", "Carry Set", "Greater than, equal, or unordered"},
	// alias for CC
	{"LO", "Carry Clear", "Less than"},
}

// aliasTargets maps the alias rows of conditions back to their field value.
var aliasTargets = [...]Cond{CondCS, CondCC}

// ConditionInfo returns the description of the condition field c. It returns
// false if c is not in [CondEQ, CondAL]. When omitAlways is set, the suffix
// of CondAL is empty, as assembly syntax leaves it out.
func ConditionInfo(c Cond, omitAlways bool) (CondInfo, bool) {
	if c > CondAL {
		return CondInfo{}, false
	}

	info := conditions[c]
	if omitAlways && c == CondAL {
		info.Suffix = ""
	}

	return info, true
}

// ConditionIndex returns the condition field for a mnemonic extension. The
// empty string is CondAL. Matching is exact and case-sensitive; "HS" and
// "LO" are accepted as aliases of "CS" and "CC".
func ConditionIndex(suffix string) (Cond, bool) {
	if suffix == "" {
		return CondAL, true
	}

	for i, info := range conditions {
		if info.Suffix != suffix {
			continue
		}
		if i > int(CondAL) {
			return aliasTargets[i-int(CondAL)-1], true
		}
		return Cond(i), true
	}

	return 0, false
}

func (c Cond) String() string {
	if info, ok := ConditionInfo(c, false); ok {
		return info.Suffix
	}
	return fmt.Sprintf("Cond(%d)", int(c))
}

// Flags holds the APSR condition flags.
type Flags struct {
	N bool
	Z bool
	C bool
	V bool
}

// Passed reports whether an instruction with condition c executes under the
// given flags.
func (c Cond) Passed(f Flags) bool {
	switch c {
	case CondEQ:
		return f.Z
	case CondNE:
		return !f.Z
	case CondCS:
		return f.C
	case CondCC:
		return !f.C
	case CondMI:
		return f.N
	case CondPL:
		return !f.N
	case CondVS:
		return f.V
	case CondVC:
		return !f.V
	case CondHI:
		return f.C && !f.Z
	case CondLS:
		return !f.C || f.Z
	case CondGE:
		return f.N == f.V
	case CondLT:
		return f.N != f.V
	case CondGT:
		return !f.Z && f.N == f.V
	case CondLE:
		return f.Z || f.N != f.V
	default:
		return true // AL, NV
	}
}
